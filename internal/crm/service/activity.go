package service

import (
	"context"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
)

type ActivityService struct {
	Store store.Store
}

func (s *ActivityService) Record(ctx context.Context, entry domain.ActivityLog) error {
	if entry.UserID == 0 || entry.Action == "" {
		return ErrInvalidRequest
	}
	return s.Store.ActivityLogs().CreateActivityLog(ctx, entry)
}

func (s *ActivityService) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.ActivityLog, error) {
	return s.Store.ActivityLogs().ListActivityLogsByUser(ctx, userID, limit)
}
