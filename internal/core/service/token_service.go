package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/identikit/identity-server/internal/core/domain"
)

// minKeyBytes is the hard floor for HMAC-SHA256 signing keys. An undersized
// key silently weakens the signature guarantee, so issuance refuses it.
const minKeyBytes = 32

const defaultTokenTTL = 2 * time.Hour

// TokenService signs bearer tokens carrying identity and role claims.
type TokenService struct {
	issuer    string
	audience  string
	secretKey string
	tokenTTL  time.Duration
}

func NewTokenService(issuer, audience, secretKey string, tokenTTL time.Duration) *TokenService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &TokenService{issuer: issuer, audience: audience, secretKey: secretKey, tokenTTL: tokenTTL}
}

// GenerateToken builds and signs a token for the subject. Every failure mode
// is a failed result, never a panic and never a half-built token.
func (s *TokenService) GenerateToken(subjectID string, user *domain.User, roles []string) domain.Result[string] {
	if strings.TrimSpace(subjectID) == "" || user == nil {
		return domain.Failure[string]("Invalid user data")
	}

	if len([]byte(s.secretKey)) < minKeyBytes {
		return domain.Failure[string]("Secret key is too short for secure signing")
	}

	if roles == nil {
		roles = []string{}
	}

	claims := jwt.MapClaims{
		"userId":   subjectID,
		"userName": user.UserName,
		"email":    user.Email,
		"roles":    roles,
		"iss":      s.issuer,
		"aud":      s.audience,
		"exp":      time.Now().UTC().Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return domain.Failure[string](fmt.Sprintf("Token generation error: %v", err))
	}

	if strings.TrimSpace(signed) == "" {
		return domain.Failure[string]("Token generation failed")
	}

	return domain.Success(signed)
}
