// Package cookiex derives session cookie attributes from the request's
// transport. Cross-site cookies require Secure+SameSite=None, which browsers
// only accept over HTTPS; plain HTTP (local development) falls back to Lax.
package cookiex

import (
	"net/http"
	"strings"
)

// IsSecureRequest reports whether the request arrived over HTTPS, either via
// direct TLS termination or a forwarded-protocol header listing https.
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	forwarded := r.Header.Get("X-Forwarded-Proto")
	if forwarded == "" {
		return false
	}
	for _, proto := range strings.Split(forwarded, ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

// SessionCookie builds the session cookie for the given request transport.
// No Domain attribute is set: host-only scoping avoids misconfiguration
// across preview and staging hostnames.
func SessionCookie(r *http.Request, name, value string, maxAge int) *http.Cookie {
	secure := IsSecureRequest(r)

	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}

	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	}
}

// ClearSessionCookie builds a cookie that removes the session, using the same
// attribute set with a negative max-age.
func ClearSessionCookie(r *http.Request, name string) *http.Cookie {
	return SessionCookie(r, name, "", -1)
}
