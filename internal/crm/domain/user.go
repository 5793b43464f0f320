package domain

import "time"

// LoginMethodLocal marks accounts created through invitation acceptance. OAuth
// accounts carry the provider name instead.
const LoginMethodLocal = "local"

// LocalOpenIDPrefix prefixes the synthesized open_id for invite-created
// accounts, keyed by email.
const LocalOpenIDPrefix = "local:"

type User struct {
	ID           int64
	OpenID       string // unique, immutable once created
	Name         string
	Email        string // may be empty
	LoginMethod  string // oauth provider name or "local"
	Role         Role
	PasswordHash string // argon2 encoded, local accounts only
	LastSignedIn *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LocalOpenID derives the open_id for an invite-created account.
func LocalOpenID(email string) string {
	return LocalOpenIDPrefix + email
}
