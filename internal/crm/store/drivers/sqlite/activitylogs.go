package sqlite

import (
	"context"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
)

type activityLogsRepo struct {
	db dbtx
}

func (r *activityLogsRepo) CreateActivityLog(ctx context.Context, l domain.ActivityLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_logs (user_id, action, lead_id, details, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		l.UserID, l.Action, l.LeadID, l.Details, time.Now().UTC())
	return err
}

func (r *activityLogsRepo) ListActivityLogsByUser(ctx context.Context, userID int64, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, action, lead_id, details, created_at
		 FROM activity_logs WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.ActivityLog
	for rows.Next() {
		var l domain.ActivityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.LeadID, &l.Details, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
