package auth

import "time"

// Identity is the authenticated caller passed explicitly into every user-scoped operation.
// The zero value is anonymous.
type Identity struct {
	AuthID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

func (i Identity) Authenticated() bool {
	return i.AuthID != ""
}
