package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
	"github.com/telecrm/telecrm/pkg/slogx"
)

type CallLogService struct {
	Store store.Store
}

// Create records a dial attempt and moves the lead to the logged result, in
// one transaction so the log and the lead never disagree.
func (s *CallLogService) Create(ctx context.Context, cl domain.CallLog) (domain.CallLog, error) {
	log := slogx.FromContext(ctx)

	if cl.LeadID == 0 || cl.AgentID == 0 || !cl.Result.Valid() {
		return domain.CallLog{}, ErrInvalidRequest
	}

	var created domain.CallLog
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Leads().GetLeadByID(ctx, cl.LeadID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrLeadNotFound
			}
			return err
		}

		id, err := tx.CallLogs().CreateCallLog(ctx, cl)
		if err != nil {
			return err
		}

		result := cl.Result
		if err := tx.Leads().UpdateLead(ctx, cl.LeadID, store.LeadUpdate{
			Status:       &result,
			NextActionAt: cl.NextActionAt,
		}); err != nil {
			return err
		}

		created = cl
		created.ID = id
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			return domain.CallLog{}, err
		}
		log.Error("failed to create call log",
			slog.Int64("lead_id", cl.LeadID),
			slog.Any("error", err),
		)
		return domain.CallLog{}, err
	}

	log.Info("call logged",
		slog.Int64("call_id", created.ID),
		slog.Int64("lead_id", cl.LeadID),
		slog.Int64("agent_id", cl.AgentID),
		slog.String("result", string(cl.Result)),
	)
	return created, nil
}

func (s *CallLogService) ListByLead(ctx context.Context, leadID int64) ([]domain.CallLog, error) {
	return s.Store.CallLogs().ListCallLogsByLead(ctx, leadID)
}

func (s *CallLogService) ListByAgent(ctx context.Context, agentID int64) ([]domain.CallLog, error) {
	return s.Store.CallLogs().ListCallLogsByAgent(ctx, agentID)
}
