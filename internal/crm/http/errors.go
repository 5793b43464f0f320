package http

import (
	"errors"
	"net/http"

	"github.com/telecrm/telecrm/internal/crm/service"
	"github.com/telecrm/telecrm/internal/crm/store"
	"github.com/telecrm/telecrm/pkg/httpx"
)

// writeServiceError maps service sentinels onto the HTTP error taxonomy.
// Anything unmapped is a server error and the details stay out of the body.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	case errors.Is(err, service.ErrInvitationNotFound):
		httpx.WriteError(w, http.StatusNotFound, "invitation_not_found", "Invitation not found")
	case errors.Is(err, service.ErrInvitationExpired):
		httpx.WriteError(w, http.StatusBadRequest, "invitation_expired", "Invitation has expired")
	case errors.Is(err, service.ErrInvitationUsed):
		httpx.WriteError(w, http.StatusConflict, "invitation_used", "Invitation has already been used")
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrLeadNotFound),
		errors.Is(err, service.ErrAppointmentNotFound),
		errors.Is(err, service.ErrListNotFound),
		errors.Is(err, service.ErrCampaignNotFound),
		errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Resource not found")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
	}
}

func writeInvalidBody(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
}
