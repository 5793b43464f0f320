package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/service"
	"github.com/telecrm/telecrm/pkg/httpx"
)

type DashboardHandler struct {
	DashboardService *service.DashboardService
}

type kpiRequest struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	AgentID   int64     `json:"agentId"`
}

func (h *DashboardHandler) HandleKPI(w http.ResponseWriter, r *http.Request) {
	var req kpiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	report, err := h.DashboardService.KPI(r.Context(), domain.KPIFilter{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		AgentID:   req.AgentID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, report)
}

type ActivityHandler struct {
	ActivityService *service.ActivityService
}

// HandleRecent lists the caller's own recent activity entries.
func (h *ActivityHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	identity := httpx.IdentityFromContext(r.Context())

	entries, err := h.ActivityService.ListByUser(r.Context(), identity.UserID, 50)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	views := make([]activityView, 0, len(entries))
	for _, e := range entries {
		views = append(views, toActivityView(e))
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}
