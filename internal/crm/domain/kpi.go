package domain

import "time"

// KPIFilter scopes dashboard aggregation. AgentID of 0 means all agents.
type KPIFilter struct {
	StartDate time.Time
	EndDate   time.Time
	AgentID   int64
}

// KPIStats are raw call counts straight out of the store.
type KPIStats struct {
	TotalCalls     int64
	ConnectedCalls int64
	AppointedCalls int64
}

// KPIReport adds the derived rates, rounded to one decimal place.
type KPIReport struct {
	TotalCalls      int64   `json:"total_calls"`
	ConnectedCalls  int64   `json:"connected_calls"`
	AppointedCalls  int64   `json:"appointed_calls"`
	ConnectionRate  float64 `json:"connection_rate"`
	AppointmentRate float64 `json:"appointment_rate"`
}
