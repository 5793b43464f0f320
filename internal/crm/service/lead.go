package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
	"github.com/telecrm/telecrm/pkg/slogx"
)

var ErrLeadNotFound = errors.New("lead not found")

type LeadService struct {
	Store store.Store
}

// ImportResult summarises a bulk import: how many rows were inserted and how
// many were skipped as duplicates of existing leads.
type ImportResult struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
}

func (s *LeadService) Create(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	log := slogx.FromContext(ctx)

	if lead.Name == "" {
		return domain.Lead{}, ErrInvalidRequest
	}
	if lead.Status == "" {
		lead.Status = domain.LeadUnreached
	}
	if !lead.Status.Valid() {
		return domain.Lead{}, ErrInvalidRequest
	}

	id, err := s.Store.Leads().CreateLead(ctx, lead)
	if err != nil {
		log.Error("failed to create lead", slog.Any("error", err))
		return domain.Lead{}, err
	}
	return s.Store.Leads().GetLeadByID(ctx, id)
}

func (s *LeadService) List(ctx context.Context, f domain.LeadFilter) ([]domain.Lead, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, ErrInvalidRequest
	}
	return s.Store.Leads().ListLeads(ctx, f)
}

func (s *LeadService) Get(ctx context.Context, id int64) (domain.Lead, error) {
	lead, err := s.Store.Leads().GetLeadByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Lead{}, ErrLeadNotFound
		}
		return domain.Lead{}, err
	}
	return lead, nil
}

func (s *LeadService) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Lead, error) {
	return s.Store.Leads().ListLeadsByOwner(ctx, ownerID)
}

// Next returns the owner's next lead to dial: unreached or callback_requested,
// earliest next_action_at first.
func (s *LeadService) Next(ctx context.Context, ownerID int64) (domain.Lead, error) {
	lead, err := s.Store.Leads().GetNextLead(ctx, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Lead{}, ErrLeadNotFound
		}
		return domain.Lead{}, err
	}
	return lead, nil
}

func (s *LeadService) Update(ctx context.Context, id int64, u store.LeadUpdate) (domain.Lead, error) {
	log := slogx.FromContext(ctx)

	if u.Status != nil && !u.Status.Valid() {
		return domain.Lead{}, ErrInvalidRequest
	}

	if err := s.Store.Leads().UpdateLead(ctx, id, u); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Lead{}, ErrLeadNotFound
		}
		log.Error("failed to update lead",
			slog.Int64("lead_id", id),
			slog.Any("error", err),
		)
		return domain.Lead{}, err
	}
	return s.Store.Leads().GetLeadByID(ctx, id)
}

// Import bulk-inserts leads, skipping rows that duplicate an existing lead by
// phone, email, or company+name. The whole batch runs in one transaction so a
// partial import never leaves the list count wrong.
func (s *LeadService) Import(ctx context.Context, leads []domain.Lead, listID, campaignID, importedBy int64) (ImportResult, error) {
	log := slogx.FromContext(ctx)

	if len(leads) == 0 {
		return ImportResult{}, ErrInvalidRequest
	}

	var result ImportResult
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, lead := range leads {
			if lead.Name == "" {
				return ErrInvalidRequest
			}

			_, err := tx.Leads().FindDuplicateLead(ctx, lead.Phone, lead.Email, lead.Company, lead.Name)
			switch {
			case err == nil:
				result.Duplicates++
				continue
			case !errors.Is(err, store.ErrNotFound):
				return err
			}

			lead.Status = domain.LeadUnreached
			lead.ListID = listID
			lead.CampaignID = campaignID
			if _, err := tx.Leads().CreateLead(ctx, lead); err != nil {
				return err
			}
			result.Imported++
		}

		if listID != 0 && result.Imported > 0 {
			list, err := tx.Lists().GetListByID(ctx, listID)
			if err != nil {
				return err
			}
			if err := tx.Lists().UpdateListCount(ctx, listID, list.TotalCount+int64(result.Imported)); err != nil {
				return err
			}
		}

		return tx.ActivityLogs().CreateActivityLog(ctx, domain.ActivityLog{
			UserID:  importedBy,
			Action:  "leads_imported",
			Details: fmt.Sprintf("imported %d, skipped %d duplicates", result.Imported, result.Duplicates),
		})
	})
	if err != nil {
		log.Error("lead import failed", slog.Any("error", err))
		return ImportResult{}, err
	}

	log.Info("leads imported",
		slog.Int("imported", result.Imported),
		slog.Int("duplicates", result.Duplicates),
		slog.Int64("list_id", listID),
		slog.Int64("imported_by", importedBy),
	)
	return result, nil
}

// Assign hands a batch of leads to an agent: owner update, assignment audit
// row and activity entry per lead, all in one transaction.
func (s *LeadService) Assign(ctx context.Context, leadIDs []int64, agentID, assignedBy int64) error {
	log := slogx.FromContext(ctx)

	if len(leadIDs) == 0 || agentID == 0 {
		return ErrInvalidRequest
	}

	// The agent must exist; assigning to a ghost id would strand the leads.
	if _, err := s.Store.Users().GetUserByID(ctx, agentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	now := time.Now().UTC()
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, leadID := range leadIDs {
			if err := tx.Leads().UpdateLead(ctx, leadID, store.LeadUpdate{OwnerID: &agentID}); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrLeadNotFound
				}
				return err
			}
			if err := tx.Assignments().CreateAssignment(ctx, domain.Assignment{
				LeadID:     leadID,
				AgentID:    agentID,
				AssignedBy: assignedBy,
				AssignedAt: now,
			}); err != nil {
				return err
			}
			if err := tx.ActivityLogs().CreateActivityLog(ctx, domain.ActivityLog{
				UserID:  assignedBy,
				Action:  "lead_assigned",
				LeadID:  leadID,
				Details: fmt.Sprintf("assigned to agent %d", agentID),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("lead assignment failed",
			slog.Int64("agent_id", agentID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("leads assigned",
		slog.Int("count", len(leadIDs)),
		slog.Int64("agent_id", agentID),
		slog.Int64("assigned_by", assignedBy),
	)
	return nil
}
