package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/service"
	"github.com/telecrm/telecrm/internal/crm/store"
	"github.com/telecrm/telecrm/pkg/httpx"
)

type AppointmentHandler struct {
	AppointmentService *service.AppointmentService
}

type appointmentCreateRequest struct {
	LeadID      int64     `json:"leadId"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

func (h *AppointmentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req appointmentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	identity := httpx.IdentityFromContext(r.Context())
	appt, err := h.AppointmentService.Create(r.Context(), domain.Appointment{
		LeadID:      req.LeadID,
		OwnerUserID: identity.UserID,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAppointmentView(appt))
}

func (h *AppointmentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid appointment id")
		return
	}

	appt, err := h.AppointmentService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAppointmentView(appt))
}

func (h *AppointmentHandler) HandleListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid owner id")
		return
	}

	appts, err := h.AppointmentService.ListByOwner(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAppointmentViews(appts))
}

type appointmentUpdateRequest struct {
	ID          int64      `json:"id"`
	Status      *string    `json:"status"`
	StartAt     *time.Time `json:"startAt"`
	EndAt       *time.Time `json:"endAt"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
}

func (h *AppointmentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req appointmentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}
	if req.ID == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	update := store.AppointmentUpdate{
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.AppointmentStatus(*req.Status)
		update.Status = &status
	}

	appt, err := h.AppointmentService.Update(r.Context(), req.ID, update)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAppointmentView(appt))
}

type appointmentDeleteRequest struct {
	ID int64 `json:"id"`
}

func (h *AppointmentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var req appointmentDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	if err := h.AppointmentService.Delete(r.Context(), req.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
