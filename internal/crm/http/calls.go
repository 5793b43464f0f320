package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/service"
	"github.com/telecrm/telecrm/pkg/httpx"
)

type CallLogHandler struct {
	CallLogService *service.CallLogService
}

type callLogCreateRequest struct {
	LeadID       int64      `json:"leadId"`
	Result       string     `json:"result"`
	Memo         string     `json:"memo"`
	NextActionAt *time.Time `json:"nextActionAt"`
}

// HandleCreate logs a dial attempt for the calling agent and moves the lead
// to the logged result.
func (h *CallLogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req callLogCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	identity := httpx.IdentityFromContext(r.Context())
	created, err := h.CallLogService.Create(r.Context(), domain.CallLog{
		LeadID:       req.LeadID,
		AgentID:      identity.UserID,
		Result:       domain.LeadStatus(req.Result),
		Memo:         req.Memo,
		NextActionAt: req.NextActionAt,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCallLogView(created))
}

func (h *CallLogHandler) HandleListByLead(w http.ResponseWriter, r *http.Request) {
	leadID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid lead id")
		return
	}

	logs, err := h.CallLogService.ListByLead(r.Context(), leadID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCallLogViews(logs))
}

func (h *CallLogHandler) HandleListByAgent(w http.ResponseWriter, r *http.Request) {
	agentID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid agent id")
		return
	}

	logs, err := h.CallLogService.ListByAgent(r.Context(), agentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCallLogViews(logs))
}
