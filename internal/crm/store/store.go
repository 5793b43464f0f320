package store

import (
	"context"
	"errors"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Users() Users
	Invitations() Invitations
	Leads() Leads
	CallLogs() CallLogs
	Appointments() Appointments
	Lists() Lists
	Campaigns() Campaigns
	Assignments() Assignments
	ActivityLogs() ActivityLogs

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise committed. Multi-step writes
	// (invite acceptance, bulk assignment) must go through here.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Tx starts a transaction directly. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// UserUpsert carries the fields an upsert may set. Nil pointers leave the
// stored column untouched on conflict.
type UserUpsert struct {
	OpenID       string
	Name         *string
	Email        *string
	LoginMethod  *string
	Role         *domain.Role
	PasswordHash *string
	LastSignedIn *time.Time
}

type Users interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByOpenID(ctx context.Context, openID string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)

	// UpsertUser inserts a user keyed by open_id, or updates the provided
	// fields on conflict. open_id itself is immutable.
	UpsertUser(ctx context.Context, u UserUpsert) error

	UpdateUserRole(ctx context.Context, userID int64, role domain.Role) error
	UpdateLastSignedIn(ctx context.Context, userID int64, at time.Time) error
}

type Invitations interface {
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetInvitationByTokenHash returns the row regardless of expiry or
	// acceptance; the service layer distinguishes expired from used.
	GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	MarkInvitationAccepted(ctx context.Context, id string, at time.Time) error
}

type LeadUpdate struct {
	Name         *string
	Company      *string
	Phone        *string
	Email        *string
	Prefecture   *string
	Industry     *string
	Memo         *string
	Status       *domain.LeadStatus
	NextActionAt *time.Time
	OwnerID      *int64
}

type Leads interface {
	CreateLead(ctx context.Context, l domain.Lead) (int64, error)
	GetLeadByID(ctx context.Context, id int64) (domain.Lead, error)
	ListLeads(ctx context.Context, f domain.LeadFilter) ([]domain.Lead, error)
	ListLeadsByOwner(ctx context.Context, ownerID int64) ([]domain.Lead, error)

	// GetNextLead returns the owner's next unreached or callback_requested
	// lead, ordered by next_action_at then created_at.
	GetNextLead(ctx context.Context, ownerID int64) (domain.Lead, error)

	UpdateLead(ctx context.Context, id int64, u LeadUpdate) error

	// FindDuplicateLead matches by phone, then email, then company+name.
	FindDuplicateLead(ctx context.Context, phone, email, company, name string) (domain.Lead, error)
}

type CallLogs interface {
	CreateCallLog(ctx context.Context, l domain.CallLog) (int64, error)
	ListCallLogsByLead(ctx context.Context, leadID int64) ([]domain.CallLog, error)
	ListCallLogsByAgent(ctx context.Context, agentID int64) ([]domain.CallLog, error)

	// CountCalls aggregates call totals for the KPI dashboard. A non-empty
	// result restricts the count to that call result.
	CountCalls(ctx context.Context, f domain.KPIFilter, result domain.LeadStatus) (int64, error)
}

type AppointmentUpdate struct {
	Status      *domain.AppointmentStatus
	StartAt     *time.Time
	EndAt       *time.Time
	Title       *string
	Description *string
}

type Appointments interface {
	CreateAppointment(ctx context.Context, a domain.Appointment) (int64, error)
	GetAppointmentByID(ctx context.Context, id int64) (domain.Appointment, error)
	ListAppointmentsByOwner(ctx context.Context, ownerUserID int64) ([]domain.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, u AppointmentUpdate) error
	DeleteAppointment(ctx context.Context, id int64) error
}

type Lists interface {
	CreateList(ctx context.Context, l domain.List) (int64, error)
	GetListByID(ctx context.Context, id int64) (domain.List, error)
	ListAllLists(ctx context.Context) ([]domain.List, error)
	UpdateListCount(ctx context.Context, id int64, count int64) error
}

type Campaigns interface {
	CreateCampaign(ctx context.Context, c domain.Campaign) (int64, error)
	GetCampaignByID(ctx context.Context, id int64) (domain.Campaign, error)
	ListAllCampaigns(ctx context.Context) ([]domain.Campaign, error)
}

type Assignments interface {
	CreateAssignment(ctx context.Context, a domain.Assignment) error
	ListAssignmentsByAgent(ctx context.Context, agentID int64) ([]domain.Assignment, error)
}

type ActivityLogs interface {
	CreateActivityLog(ctx context.Context, l domain.ActivityLog) error
	ListActivityLogsByUser(ctx context.Context, userID int64, limit int) ([]domain.ActivityLog, error)
}
