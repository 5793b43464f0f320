// Package http wires the CRM services onto a net/http ServeMux. View types
// keep the wire shapes stable and keep password hashes out of responses.
package http

import (
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
)

type userView struct {
	ID           int64      `json:"id"`
	OpenID       string     `json:"openId"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	LoginMethod  string     `json:"loginMethod"`
	Role         string     `json:"role"`
	LastSignedIn *time.Time `json:"lastSignedIn,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toUserView(u domain.User) userView {
	return userView{
		ID:           u.ID,
		OpenID:       u.OpenID,
		Name:         u.Name,
		Email:        u.Email,
		LoginMethod:  u.LoginMethod,
		Role:         string(u.Role),
		LastSignedIn: u.LastSignedIn,
		CreatedAt:    u.CreatedAt,
	}
}

func toUserViews(users []domain.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	return views
}

type leadView struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Company      string     `json:"company"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Prefecture   string     `json:"prefecture"`
	Industry     string     `json:"industry"`
	Memo         string     `json:"memo"`
	Status       string     `json:"status"`
	NextActionAt *time.Time `json:"nextActionAt,omitempty"`
	OwnerID      int64      `json:"ownerId"`
	ListID       int64      `json:"listId"`
	CampaignID   int64      `json:"campaignId"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func toLeadView(l domain.Lead) leadView {
	return leadView{
		ID:           l.ID,
		Name:         l.Name,
		Company:      l.Company,
		Phone:        l.Phone,
		Email:        l.Email,
		Prefecture:   l.Prefecture,
		Industry:     l.Industry,
		Memo:         l.Memo,
		Status:       string(l.Status),
		NextActionAt: l.NextActionAt,
		OwnerID:      l.OwnerID,
		ListID:       l.ListID,
		CampaignID:   l.CampaignID,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toLeadViews(leads []domain.Lead) []leadView {
	views := make([]leadView, 0, len(leads))
	for _, l := range leads {
		views = append(views, toLeadView(l))
	}
	return views
}

type callLogView struct {
	ID           int64      `json:"id"`
	LeadID       int64      `json:"leadId"`
	AgentID      int64      `json:"agentId"`
	Result       string     `json:"result"`
	Memo         string     `json:"memo"`
	NextActionAt *time.Time `json:"nextActionAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toCallLogView(l domain.CallLog) callLogView {
	return callLogView{
		ID:           l.ID,
		LeadID:       l.LeadID,
		AgentID:      l.AgentID,
		Result:       string(l.Result),
		Memo:         l.Memo,
		NextActionAt: l.NextActionAt,
		CreatedAt:    l.CreatedAt,
	}
}

func toCallLogViews(logs []domain.CallLog) []callLogView {
	views := make([]callLogView, 0, len(logs))
	for _, l := range logs {
		views = append(views, toCallLogView(l))
	}
	return views
}

type appointmentView struct {
	ID          int64     `json:"id"`
	LeadID      int64     `json:"leadId"`
	OwnerUserID int64     `json:"ownerUserId"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toAppointmentView(a domain.Appointment) appointmentView {
	return appointmentView{
		ID:          a.ID,
		LeadID:      a.LeadID,
		OwnerUserID: a.OwnerUserID,
		StartAt:     a.StartAt,
		EndAt:       a.EndAt,
		Title:       a.Title,
		Description: a.Description,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toAppointmentViews(appts []domain.Appointment) []appointmentView {
	views := make([]appointmentView, 0, len(appts))
	for _, a := range appts {
		views = append(views, toAppointmentView(a))
	}
	return views
}

type listView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   int64     `json:"createdBy"`
	TotalCount  int64     `json:"totalCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toListView(l domain.List) listView {
	return listView{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		CreatedBy:   l.CreatedBy,
		TotalCount:  l.TotalCount,
		CreatedAt:   l.CreatedAt,
	}
}

type campaignView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCampaignView(c domain.Campaign) campaignView {
	return campaignView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
	}
}

type activityView struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Action    string    `json:"action"`
	LeadID    int64     `json:"leadId,omitempty"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

func toActivityView(l domain.ActivityLog) activityView {
	return activityView{
		ID:        l.ID,
		UserID:    l.UserID,
		Action:    l.Action,
		LeadID:    l.LeadID,
		Details:   l.Details,
		CreatedAt: l.CreatedAt,
	}
}
