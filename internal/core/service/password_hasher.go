package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	keySize    = 32
	iterations = 10000
	// delimiter separates the encoded salt from the encoded key; ';' is not
	// part of the base64 alphabet.
	delimiter = ";"
)

// PasswordHasher derives PBKDF2-SHA256 hashes with a fresh random salt per
// call and verifies candidates in constant time.
type PasswordHasher struct{}

func NewPasswordHasher() *PasswordHasher { return &PasswordHasher{} }

// HashPassword returns base64(salt) + ";" + base64(key).
func (h *PasswordHasher) HashPassword(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New)

	return base64.StdEncoding.EncodeToString(salt) + delimiter + base64.StdEncoding.EncodeToString(key), nil
}

// VerifyPassword re-derives the key from the provided password using the
// stored salt and compares it against the stored key in constant time.
// Malformed encodings verify as false.
func (h *PasswordHasher) VerifyPassword(hashedPassword, providedPassword string) bool {
	parts := strings.Split(hashedPassword, delimiter)
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	storedKey, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	providedKey := pbkdf2.Key([]byte(providedPassword), salt, iterations, keySize, sha256.New)

	return subtle.ConstantTimeCompare(providedKey, storedKey) == 1
}
