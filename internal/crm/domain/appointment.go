package domain

import "time"

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

// Valid reports whether s is a known appointment status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentCancelled, AppointmentCompleted:
		return true
	default:
		return false
	}
}

type Appointment struct {
	ID          int64
	LeadID      int64
	OwnerUserID int64
	StartAt     time.Time
	EndAt       time.Time
	Title       string
	Description string
	Status      AppointmentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
