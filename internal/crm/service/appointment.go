package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
	"github.com/telecrm/telecrm/pkg/slogx"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

type AppointmentService struct {
	Store store.Store
}

func (s *AppointmentService) Create(ctx context.Context, a domain.Appointment) (domain.Appointment, error) {
	log := slogx.FromContext(ctx)

	if a.LeadID == 0 || a.OwnerUserID == 0 || a.StartAt.IsZero() || a.EndAt.IsZero() {
		return domain.Appointment{}, ErrInvalidRequest
	}
	if !a.EndAt.After(a.StartAt) {
		return domain.Appointment{}, ErrInvalidRequest
	}
	if a.Status == "" {
		a.Status = domain.AppointmentScheduled
	}
	if !a.Status.Valid() {
		return domain.Appointment{}, ErrInvalidRequest
	}

	if _, err := s.Store.Leads().GetLeadByID(ctx, a.LeadID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, ErrLeadNotFound
		}
		return domain.Appointment{}, err
	}

	id, err := s.Store.Appointments().CreateAppointment(ctx, a)
	if err != nil {
		log.Error("failed to create appointment",
			slog.Int64("lead_id", a.LeadID),
			slog.Any("error", err),
		)
		return domain.Appointment{}, err
	}

	log.Info("appointment created",
		slog.Int64("appointment_id", id),
		slog.Int64("lead_id", a.LeadID),
		slog.Int64("owner_user_id", a.OwnerUserID),
	)
	return s.Store.Appointments().GetAppointmentByID(ctx, id)
}

func (s *AppointmentService) Get(ctx context.Context, id int64) (domain.Appointment, error) {
	a, err := s.Store.Appointments().GetAppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, ErrAppointmentNotFound
		}
		return domain.Appointment{}, err
	}
	return a, nil
}

func (s *AppointmentService) ListByOwner(ctx context.Context, ownerUserID int64) ([]domain.Appointment, error) {
	return s.Store.Appointments().ListAppointmentsByOwner(ctx, ownerUserID)
}

func (s *AppointmentService) Update(ctx context.Context, id int64, u store.AppointmentUpdate) (domain.Appointment, error) {
	if u.Status != nil && !u.Status.Valid() {
		return domain.Appointment{}, ErrInvalidRequest
	}
	if u.StartAt != nil && u.EndAt != nil && !u.EndAt.After(*u.StartAt) {
		return domain.Appointment{}, ErrInvalidRequest
	}

	if err := s.Store.Appointments().UpdateAppointment(ctx, id, u); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, ErrAppointmentNotFound
		}
		return domain.Appointment{}, err
	}
	return s.Store.Appointments().GetAppointmentByID(ctx, id)
}

func (s *AppointmentService) Delete(ctx context.Context, id int64) error {
	if err := s.Store.Appointments().DeleteAppointment(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}
	return nil
}
