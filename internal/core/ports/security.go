package ports

import "github.com/relaycrm/crm-api/internal/core/domain"

// PasswordHasher is a one-way credential hash with a constant-time verify.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

// TokenService issues and verifies signed, expiring bearer tokens.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	// Verify returns domain.ErrTokenMalformed, domain.ErrTokenSignatureInvalid
	// or domain.ErrTokenExpired when the token cannot be trusted.
	Verify(token string) (*domain.Claims, error)
}
