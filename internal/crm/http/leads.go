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

type LeadHandler struct {
	LeadService *service.LeadService
}

type leadPayload struct {
	Name         string     `json:"name"`
	Company      string     `json:"company"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Prefecture   string     `json:"prefecture"`
	Industry     string     `json:"industry"`
	Memo         string     `json:"memo"`
	Status       string     `json:"status"`
	NextActionAt *time.Time `json:"nextActionAt"`
	OwnerID      int64      `json:"ownerId"`
	ListID       int64      `json:"listId"`
	CampaignID   int64      `json:"campaignId"`
}

func (p leadPayload) toDomain() domain.Lead {
	return domain.Lead{
		Name:         p.Name,
		Company:      p.Company,
		Phone:        p.Phone,
		Email:        p.Email,
		Prefecture:   p.Prefecture,
		Industry:     p.Industry,
		Memo:         p.Memo,
		Status:       domain.LeadStatus(p.Status),
		NextActionAt: p.NextActionAt,
		OwnerID:      p.OwnerID,
		ListID:       p.ListID,
		CampaignID:   p.CampaignID,
	}
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req leadPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	lead, err := h.LeadService.Create(r.Context(), req.toDomain())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toLeadView(lead))
}

type leadListRequest struct {
	Status     string `json:"status"`
	OwnerID    int64  `json:"ownerId"`
	ListID     int64  `json:"listId"`
	CampaignID int64  `json:"campaignId"`
}

func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var req leadListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	leads, err := h.LeadService.List(r.Context(), domain.LeadFilter{
		Status:     domain.LeadStatus(req.Status),
		OwnerID:    req.OwnerID,
		ListID:     req.ListID,
		CampaignID: req.CampaignID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toLeadViews(leads))
}

func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid lead id")
		return
	}

	lead, err := h.LeadService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toLeadView(lead))
}

// HandleMy lists the calling agent's own leads.
func (h *LeadHandler) HandleMy(w http.ResponseWriter, r *http.Request) {
	identity := httpx.IdentityFromContext(r.Context())

	leads, err := h.LeadService.ListByOwner(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toLeadViews(leads))
}

// HandleNext returns the agent's next lead to dial.
func (h *LeadHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	identity := httpx.IdentityFromContext(r.Context())

	lead, err := h.LeadService.Next(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toLeadView(lead))
}

type leadUpdateRequest struct {
	ID           int64      `json:"id"`
	Name         *string    `json:"name"`
	Company      *string    `json:"company"`
	Phone        *string    `json:"phone"`
	Email        *string    `json:"email"`
	Prefecture   *string    `json:"prefecture"`
	Industry     *string    `json:"industry"`
	Memo         *string    `json:"memo"`
	Status       *string    `json:"status"`
	NextActionAt *time.Time `json:"nextActionAt"`
	OwnerID      *int64     `json:"ownerId"`
}

func (h *LeadHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req leadUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}
	if req.ID == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	update := store.LeadUpdate{
		Name:         req.Name,
		Company:      req.Company,
		Phone:        req.Phone,
		Email:        req.Email,
		Prefecture:   req.Prefecture,
		Industry:     req.Industry,
		Memo:         req.Memo,
		NextActionAt: req.NextActionAt,
		OwnerID:      req.OwnerID,
	}
	if req.Status != nil {
		status := domain.LeadStatus(*req.Status)
		update.Status = &status
	}

	lead, err := h.LeadService.Update(r.Context(), req.ID, update)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toLeadView(lead))
}

type leadImportRequest struct {
	Leads      []leadPayload `json:"leads"`
	ListID     int64         `json:"listId"`
	CampaignID int64         `json:"campaignId"`
}

func (h *LeadHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req leadImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	leads := make([]domain.Lead, 0, len(req.Leads))
	for _, p := range req.Leads {
		leads = append(leads, p.toDomain())
	}

	identity := httpx.IdentityFromContext(r.Context())
	result, err := h.LeadService.Import(r.Context(), leads, req.ListID, req.CampaignID, identity.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

type leadAssignRequest struct {
	LeadIDs []int64 `json:"leadIds"`
	AgentID int64   `json:"agentId"`
}

func (h *LeadHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	var req leadAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	identity := httpx.IdentityFromContext(r.Context())
	if err := h.LeadService.Assign(r.Context(), req.LeadIDs, req.AgentID, identity.UserID); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
