package ports

import "github.com/identikit/identity-server/internal/core/domain"

// PasswordHasher derives and verifies salted password hashes.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	// VerifyPassword reports whether the plaintext matches the encoded hash.
	// Malformed hashes verify as false, never as an error.
	VerifyPassword(hashedPassword, providedPassword string) bool
}

// TokenService builds and signs the bearer token carrying identity and role
// claims. All failure modes surface as failed results; a token is never
// returned partially constructed.
type TokenService interface {
	GenerateToken(subjectID string, user *domain.User, roles []string) domain.Result[string]
}
