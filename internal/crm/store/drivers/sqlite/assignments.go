package sqlite

import (
	"context"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
)

type assignmentsRepo struct {
	db dbtx
}

func (r *assignmentsRepo) CreateAssignment(ctx context.Context, a domain.Assignment) error {
	at := a.AssignedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assignments (lead_id, agent_id, assigned_by, assigned_at)
		 VALUES (?, ?, ?, ?)`,
		a.LeadID, a.AgentID, a.AssignedBy, at)
	return err
}

func (r *assignmentsRepo) ListAssignmentsByAgent(ctx context.Context, agentID int64) ([]domain.Assignment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, lead_id, agent_id, assigned_by, assigned_at
		 FROM assignments WHERE agent_id = ? ORDER BY assigned_at DESC, id DESC`,
		agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.ID, &a.LeadID, &a.AgentID, &a.AssignedBy, &a.AssignedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
