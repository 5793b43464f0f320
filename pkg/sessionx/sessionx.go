// Package sessionx issues and verifies the signed bearer tokens carried in
// the session cookie. Tokens are stateless: the server keeps no session table
// and trusts only the signature and expiry.
package sessionx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/telecrm/telecrm/pkg/idx"
)

// DefaultTTL is the session lifetime for login- and OAuth-issued tokens.
// Deliberately long-lived; acceptable for a low-risk internal tool.
const DefaultTTL = 365 * 24 * time.Hour

// ErrInvalidSession covers every verification failure. Malformed, forged and
// expired tokens are indistinguishable to callers so nothing leaks about why
// authentication failed.
var ErrInvalidSession = errors.New("sessionx: invalid session token")

// Session is the verified identity a token carries.
type Session struct {
	OpenID string
	Name   string
}

type claims struct {
	jwt.RegisteredClaims

	Name string `json:"name,omitempty"`
}

// Codec signs and verifies session tokens with a shared HS256 secret.
type Codec struct {
	Secret []byte
	Issuer string
}

// Issue mints a signed token for the subject, expiring after ttl.
func (c *Codec) Issue(openID, name string, ttl time.Duration) (string, error) {
	if len(c.Secret) == 0 {
		return "", errors.New("sessionx: codec has no secret")
	}

	now := time.Now().UTC()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.Issuer,
			Subject:   openID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.New().String(),
		},
		Name: name,
	})

	return tok.SignedString(c.Secret)
}

// Verify checks signature, issuer and expiry. Any failure returns
// ErrInvalidSession.
func (c *Codec) Verify(token string) (Session, error) {
	var cl claims
	parsed, err := jwt.ParseWithClaims(token, &cl,
		func(t *jwt.Token) (any, error) { return c.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || cl.Subject == "" {
		return Session{}, ErrInvalidSession
	}

	return Session{OpenID: cl.Subject, Name: cl.Name}, nil
}
