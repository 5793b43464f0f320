package domain

import "time"

// InvitationTTL is how long an invitation stays redeemable after issuance.
const InvitationTTL = 7 * 24 * time.Hour

// Invitation is a single-use credential-bootstrap token. The opaque token is
// handed out once at issue time; only its fingerprint is stored.
type Invitation struct {
	ID         string // ULID
	Email      string
	TokenHash  string // SHA-256 fingerprint of the opaque token
	Role       Role   // manager, agent or viewer; never admin
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	CreatedBy  int64 // issuing admin's user id
	CreatedAt  time.Time
}

// Redeemable reports whether the invitation can still be accepted at t.
func (i Invitation) Redeemable(t time.Time) bool {
	return i.AcceptedAt == nil && t.Before(i.ExpiresAt)
}
