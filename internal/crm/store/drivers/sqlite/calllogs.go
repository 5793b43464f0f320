package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
)

type callLogsRepo struct {
	db dbtx
}

const callLogColumns = `id, lead_id, agent_id, result, memo, next_action_at, created_at`

func (r *callLogsRepo) CreateCallLog(ctx context.Context, l domain.CallLog) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO call_logs (lead_id, agent_id, result, memo, next_action_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		l.LeadID, l.AgentID, string(l.Result), l.Memo, nullTime(l.NextActionAt),
		time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *callLogsRepo) ListCallLogsByLead(ctx context.Context, leadID int64) ([]domain.CallLog, error) {
	return r.queryCallLogs(ctx,
		`SELECT `+callLogColumns+` FROM call_logs WHERE lead_id = ? ORDER BY created_at DESC, id DESC`,
		leadID)
}

func (r *callLogsRepo) ListCallLogsByAgent(ctx context.Context, agentID int64) ([]domain.CallLog, error) {
	return r.queryCallLogs(ctx,
		`SELECT `+callLogColumns+` FROM call_logs WHERE agent_id = ? ORDER BY created_at DESC, id DESC`,
		agentID)
}

func (r *callLogsRepo) CountCalls(ctx context.Context, f domain.KPIFilter, result domain.LeadStatus) (int64, error) {
	var (
		conds []string
		args  []any
	)
	if !f.StartDate.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, f.StartDate)
	}
	if !f.EndDate.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, f.EndDate)
	}
	if f.AgentID != 0 {
		conds = append(conds, "agent_id = ?")
		args = append(args, f.AgentID)
	}
	if result != "" {
		conds = append(conds, "result = ?")
		args = append(args, string(result))
	}

	query := `SELECT COUNT(*) FROM call_logs`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}

	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *callLogsRepo) queryCallLogs(ctx context.Context, query string, args ...any) ([]domain.CallLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.CallLog
	for rows.Next() {
		var (
			l            domain.CallLog
			result       string
			nextActionAt sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.LeadID, &l.AgentID, &result, &l.Memo, &nextActionAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Result = domain.LeadStatus(result)
		l.NextActionAt = timePtr(nextActionAt)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
