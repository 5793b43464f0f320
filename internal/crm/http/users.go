package http

import (
	"encoding/json"
	"net/http"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/service"
	"github.com/telecrm/telecrm/pkg/httpx"
)

type UserHandler struct {
	UserService *service.UserService
}

func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserViews(users))
}

type userRoleRequest struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

func (h *UserHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	var req userRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	identity := httpx.IdentityFromContext(r.Context())
	if err := h.UserService.UpdateRole(r.Context(), req.UserID, domain.Role(req.Role), identity.UserID); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
