package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/service"
	"github.com/telecrm/telecrm/pkg/httpx"
)

type ListHandler struct {
	ListService *service.ListService
}

type listCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *ListHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req listCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	identity := httpx.IdentityFromContext(r.Context())
	list, err := h.ListService.Create(r.Context(), domain.List{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   identity.UserID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toListView(list))
}

func (h *ListHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid list id")
		return
	}

	list, err := h.ListService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toListView(list))
}

func (h *ListHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	lists, err := h.ListService.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	views := make([]listView, 0, len(lists))
	for _, l := range lists {
		views = append(views, toListView(l))
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}

type CampaignHandler struct {
	CampaignService *service.CampaignService
}

func (h *CampaignHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req listCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	identity := httpx.IdentityFromContext(r.Context())
	campaign, err := h.CampaignService.Create(r.Context(), domain.Campaign{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   identity.UserID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCampaignView(campaign))
}

func (h *CampaignHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid campaign id")
		return
	}

	campaign, err := h.CampaignService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCampaignView(campaign))
}

func (h *CampaignHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.CampaignService.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	views := make([]campaignView, 0, len(campaigns))
	for _, c := range campaigns {
		views = append(views, toCampaignView(c))
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}
