package httpx

import (
	"net/http"
	"path"
	"strings"
)

// LoginWall redirects anonymous page requests to the login screen. API
// routes, the login/signup screens and static assets stay reachable; the
// rest of the application is authentication-walled.
func LoginWall(loginPath string, openPrefixes ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IdentityFromContext(r.Context()).Anonymous() && !isOpenPath(r.URL.Path, loginPath, openPrefixes) {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isOpenPath(p, loginPath string, openPrefixes []string) bool {
	if p == loginPath {
		return true
	}
	for _, prefix := range openPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	// Assets (anything with a file extension) are served without a session.
	return path.Ext(p) != ""
}
