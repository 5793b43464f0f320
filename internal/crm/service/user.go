package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
	"github.com/telecrm/telecrm/pkg/slogx"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	Store store.Store
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdateRole changes a user's privilege tier and leaves an audit entry.
func (s *UserService) UpdateRole(ctx context.Context, userID int64, role domain.Role, updatedBy int64) error {
	log := slogx.FromContext(ctx)

	if !role.Valid() {
		return ErrInvalidRequest
	}

	if err := s.Store.Users().UpdateUserRole(ctx, userID, role); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		log.Error("failed to update user role",
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
		return err
	}

	if err := s.Store.ActivityLogs().CreateActivityLog(ctx, domain.ActivityLog{
		UserID:  updatedBy,
		Action:  "user_role_updated",
		Details: fmt.Sprintf("user %d -> %s", userID, role),
	}); err != nil {
		log.Warn("failed to record role change", slog.Any("error", err))
	}

	log.Info("user role updated",
		slog.Int64("user_id", userID),
		slog.String("role", string(role)),
		slog.Int64("updated_by", updatedBy),
	)
	return nil
}
