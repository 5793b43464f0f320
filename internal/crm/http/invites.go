package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/service"
	"github.com/telecrm/telecrm/pkg/httpx"
)

type InviteHandler struct {
	InviteService *service.InviteService
}

type inviteIssueRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type inviteIssueResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// HandleIssue mints an invitation. Admin only; the raw token appears in this
// response and nowhere else.
func (h *InviteHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req inviteIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	identity := httpx.IdentityFromContext(ctx)
	token, inv, err := h.InviteService.Issue(ctx, req.Email, domain.Role(req.Role), identity.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, inviteIssueResponse{
		Token:     token,
		Email:     inv.Email,
		Role:      string(inv.Role),
		ExpiresAt: inv.ExpiresAt,
	})
}

type inviteTokenRequest struct {
	Token string `json:"token"`
}

type inviteVerifyResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// HandleVerify checks a token without consuming it, so the signup page can
// prefill the email and show the granted role.
func (h *InviteHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req inviteTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}
	if req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	inv, err := h.InviteService.Verify(ctx, req.Token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, inviteVerifyResponse{
		Email: inv.Email,
		Role:  string(inv.Role),
	})
}

type inviteAcceptRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// HandleAccept consumes the invitation and creates the local account.
func (h *InviteHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req inviteAcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	user, err := h.InviteService.Accept(ctx, req.Token, req.Name, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserView(user))
}
