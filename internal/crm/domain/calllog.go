package domain

import "time"

// CallLog records one dial attempt against a lead. Result reuses the lead
// status vocabulary; creating a log also transitions the lead.
type CallLog struct {
	ID           int64
	LeadID       int64
	AgentID      int64
	Result       LeadStatus
	Memo         string
	NextActionAt *time.Time
	CreatedAt    time.Time
}
