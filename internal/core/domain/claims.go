package domain

import "time"

// Claims is the identity asserted by a verified bearer token.
type Claims struct {
	UserID    string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
