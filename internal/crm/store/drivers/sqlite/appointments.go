package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
)

type appointmentsRepo struct {
	db dbtx
}

const appointmentColumns = `id, lead_id, owner_user_id, start_at, end_at, title,
	description, status, created_at, updated_at`

func scanAppointment(row interface{ Scan(...any) error }) (domain.Appointment, error) {
	var (
		a      domain.Appointment
		status string
	)
	err := row.Scan(
		&a.ID, &a.LeadID, &a.OwnerUserID, &a.StartAt, &a.EndAt,
		&a.Title, &a.Description, &status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Appointment{}, err
	}
	a.Status = domain.AppointmentStatus(status)
	return a, nil
}

func (r *appointmentsRepo) CreateAppointment(ctx context.Context, a domain.Appointment) (int64, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO appointments (lead_id, owner_user_id, start_at, end_at, title,
			description, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.LeadID, a.OwnerUserID, a.StartAt, a.EndAt, a.Title,
		a.Description, string(a.Status), now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *appointmentsRepo) GetAppointmentByID(ctx context.Context, id int64) (domain.Appointment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id)
	a, err := scanAppointment(row)
	if err != nil {
		return domain.Appointment{}, mapNotFound(err)
	}
	return a, nil
}

func (r *appointmentsRepo) ListAppointmentsByOwner(ctx context.Context, ownerUserID int64) ([]domain.Appointment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE owner_user_id = ? ORDER BY start_at, id`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

func (r *appointmentsRepo) UpdateAppointment(ctx context.Context, id int64, u store.AppointmentUpdate) error {
	var (
		set  []string
		args []any
	)
	assign := func(column string, v any) {
		set = append(set, column+" = ?")
		args = append(args, v)
	}

	if u.Status != nil {
		assign("status", string(*u.Status))
	}
	if u.StartAt != nil {
		assign("start_at", *u.StartAt)
	}
	if u.EndAt != nil {
		assign("end_at", *u.EndAt)
	}
	if u.Title != nil {
		assign("title", *u.Title)
	}
	if u.Description != nil {
		assign("description", *u.Description)
	}
	if len(set) == 0 {
		return nil
	}
	assign("updated_at", time.Now().UTC())

	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *appointmentsRepo) DeleteAppointment(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}
