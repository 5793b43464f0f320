package domain

import "time"

// Assignment is the audit record of a lead being handed to an agent.
type Assignment struct {
	ID         int64
	LeadID     int64
	AgentID    int64
	AssignedBy int64
	AssignedAt time.Time
}

// ActivityLog is a free-form audit entry for notable user actions.
type ActivityLog struct {
	ID        int64
	UserID    int64
	Action    string
	LeadID    int64 // 0 when the action is not lead-scoped
	Details   string
	CreatedAt time.Time
}
