package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/telecrm/telecrm/internal/crm/service"
	"github.com/telecrm/telecrm/pkg/cookiex"
	"github.com/telecrm/telecrm/pkg/httpx"
	"github.com/telecrm/telecrm/pkg/sessionx"
	"github.com/telecrm/telecrm/pkg/slogx"
)

type SessionHandler struct {
	AuthService *service.AuthService
	Codec       *sessionx.Codec
	CookieName  string
	SessionTTL  time.Duration
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin authenticates a local account and sets the session cookie.
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	user, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.Codec.Issue(user.OpenID, user.Name, h.SessionTTL)
	if err != nil {
		log.Error("failed to issue session token", slog.Any("error", err))
		writeServiceError(w, err)
		return
	}

	http.SetCookie(w, cookiex.SessionCookie(r, h.CookieName, token, int(h.SessionTTL.Seconds())))
	httpx.WriteJSON(w, http.StatusOK, toUserView(user))
}

// HandleMe returns the caller's identity. Anonymous requests get the viewer
// identity rather than an error.
func (h *SessionHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, httpx.IdentityFromContext(r.Context()))
}

// HandleLogout clears the session cookie. Always succeeds.
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, cookiex.ClearSessionCookie(r, h.CookieName))
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
