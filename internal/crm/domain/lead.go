package domain

import "time"

// LeadStatus tracks where a lead sits in the calling funnel. Call results use
// the same vocabulary: logging a call moves the lead to the logged result.
type LeadStatus string

const (
	LeadUnreached         LeadStatus = "unreached"
	LeadConnected         LeadStatus = "connected"
	LeadNoAnswer          LeadStatus = "no_answer"
	LeadCallbackRequested LeadStatus = "callback_requested"
	LeadRetryWaiting      LeadStatus = "retry_waiting"
	LeadNG                LeadStatus = "ng"
	LeadConsidering       LeadStatus = "considering"
	LeadAppointed         LeadStatus = "appointed"
	LeadLost              LeadStatus = "lost"
)

var leadStatuses = map[LeadStatus]struct{}{
	LeadUnreached:         {},
	LeadConnected:         {},
	LeadNoAnswer:          {},
	LeadCallbackRequested: {},
	LeadRetryWaiting:      {},
	LeadNG:                {},
	LeadConsidering:       {},
	LeadAppointed:         {},
	LeadLost:              {},
}

// Valid reports whether s is a known status.
func (s LeadStatus) Valid() bool {
	_, ok := leadStatuses[s]
	return ok
}

type Lead struct {
	ID           int64
	Name         string
	Company      string
	Phone        string
	Email        string
	Prefecture   string
	Industry     string
	Memo         string
	Status       LeadStatus
	NextActionAt *time.Time
	OwnerID      int64 // 0 when unassigned
	ListID       int64 // 0 when not part of a list
	CampaignID   int64 // 0 when not part of a campaign
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LeadFilter narrows lead listings and CSV exports. Zero values mean "any".
type LeadFilter struct {
	Status     LeadStatus
	OwnerID    int64
	ListID     int64
	CampaignID int64
}
