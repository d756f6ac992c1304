package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidWorkFactor is returned when the bcrypt cost is missing or out of range.
var ErrInvalidWorkFactor = errors.New("invalid bcrypt work factor")

// BcryptHasher hashes credentials with a fixed, explicitly configured cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher refuses to build a hasher without a usable cost; there is no
// fallback to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidWorkFactor, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Hash returns the bcrypt hash of plain.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	if h == nil || h.cost == 0 {
		return "", ErrInvalidWorkFactor
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify compares plain against hashed in constant time.
func (h *BcryptHasher) Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
