package models

import "time"

type UserRole string

const (
	UserRoleDonor     UserRole = "donor"
	UserRoleRecipient UserRole = "recipient"
)

func (r UserRole) Valid() bool {
	return r == UserRoleDonor || r == UserRoleRecipient
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	Role         UserRole
	Phone        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is an opaque bearer credential. Only the sha256 digest of the
// token is stored; the plaintext exists once, in the issue response.
type Session struct {
	ID         string
	UserID     string
	TokenHash  []byte
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
	LastSeenAt time.Time
	ExpiresAt  time.Time
}

func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
