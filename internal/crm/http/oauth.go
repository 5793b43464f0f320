package http

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/telecrm/telecrm/internal/crm/service"
	"github.com/telecrm/telecrm/pkg/cookiex"
	"github.com/telecrm/telecrm/pkg/httpx"
	"github.com/telecrm/telecrm/pkg/oauthx"
	"github.com/telecrm/telecrm/pkg/sessionx"
	"github.com/telecrm/telecrm/pkg/slogx"
)

type OAuthHandler struct {
	AuthService *service.AuthService
	Provider    *oauthx.Provider
	Codec       *sessionx.Codec
	CookieName  string
	SessionTTL  time.Duration
}

// HandleLogin redirects to the provider's authorize URL. The state carries the
// post-login redirect target, base64 encoded.
func (h *OAuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	redirect := r.URL.Query().Get("redirect")
	if redirect == "" {
		redirect = "/"
	}
	state := base64.URLEncoding.EncodeToString([]byte(redirect))
	http.Redirect(w, r, h.Provider.AuthCodeURL(state), http.StatusFound)
}

// HandleCallback exchanges the authorization code, upserts the user, issues a
// session cookie and redirects back into the app.
func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "code and state are required")
		return
	}

	token, err := h.Provider.Exchange(ctx, code)
	if err != nil {
		log.Warn("oauth code exchange failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Authorization code exchange failed")
		return
	}

	info, err := h.Provider.FetchUserInfo(ctx, token)
	if err != nil {
		log.Error("failed to fetch oauth user info", slog.Any("error", err))
		httpx.WriteError(w, http.StatusBadGateway, "server_error", "Failed to fetch user info")
		return
	}

	user, err := h.AuthService.UpsertOAuthUser(ctx, info)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	session, err := h.Codec.Issue(user.OpenID, user.Name, h.SessionTTL)
	if err != nil {
		log.Error("failed to issue session token", slog.Any("error", err))
		writeServiceError(w, err)
		return
	}
	http.SetCookie(w, cookiex.SessionCookie(r, h.CookieName, session, int(h.SessionTTL.Seconds())))

	redirect := "/"
	if decoded, err := base64.URLEncoding.DecodeString(state); err == nil && len(decoded) > 0 {
		// Only relative targets; an absolute URL in state would be an
		// open redirect.
		if decoded[0] == '/' {
			redirect = string(decoded)
		}
	}
	http.Redirect(w, r, redirect, http.StatusFound)
}
