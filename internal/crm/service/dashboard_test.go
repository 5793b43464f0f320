package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/telecrm/telecrm/internal/crm/domain"
)

func TestDashboardKPI(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	calls := &CallLogService{Store: st}
	svc := &DashboardService{Store: st}

	agentA := seedUser(t, st, "agent:k1", "Kei", "k1@example.com", domain.RoleAgent)
	agentB := seedUser(t, st, "agent:k2", "Rin", "k2@example.com", domain.RoleAgent)

	logCall := func(agentID int64, result domain.LeadStatus) {
		lead := seedLead(t, st, domain.Lead{Name: "kpi lead"})
		_, err := calls.Create(ctx, domain.CallLog{LeadID: lead.ID, AgentID: agentID, Result: result})
		require.NoError(t, err)
	}

	// Agent A: 3 calls, 2 connected, 1 appointed.
	logCall(agentA.ID, domain.LeadConnected)
	logCall(agentA.ID, domain.LeadConnected)
	logCall(agentA.ID, domain.LeadAppointed)
	// Agent B: 3 calls, none connected.
	logCall(agentB.ID, domain.LeadNoAnswer)
	logCall(agentB.ID, domain.LeadNG)
	logCall(agentB.ID, domain.LeadNoAnswer)

	window := domain.KPIFilter{
		StartDate: time.Now().UTC().Add(-time.Hour),
		EndDate:   time.Now().UTC().Add(time.Hour),
	}

	t.Run("all agents", func(t *testing.T) {
		report, err := svc.KPI(ctx, window)
		require.NoError(t, err)
		require.Equal(t, int64(6), report.TotalCalls)
		require.Equal(t, int64(2), report.ConnectedCalls)
		require.Equal(t, int64(1), report.AppointedCalls)
		// 2/6 = 33.333..% rounds to 33.3; 1/2 = 50%.
		require.InDelta(t, 33.3, report.ConnectionRate, 1e-9)
		require.InDelta(t, 50.0, report.AppointmentRate, 1e-9)
	})

	t.Run("single agent", func(t *testing.T) {
		report, err := svc.KPI(ctx, domain.KPIFilter{
			StartDate: window.StartDate,
			EndDate:   window.EndDate,
			AgentID:   agentA.ID,
		})
		require.NoError(t, err)
		require.Equal(t, int64(3), report.TotalCalls)
		require.Equal(t, int64(2), report.ConnectedCalls)
		require.InDelta(t, 66.7, report.ConnectionRate, 1e-9)
	})

	t.Run("zero denominators yield zero rates", func(t *testing.T) {
		report, err := svc.KPI(ctx, domain.KPIFilter{
			StartDate: time.Now().UTC().Add(24 * time.Hour),
			EndDate:   time.Now().UTC().Add(48 * time.Hour),
		})
		require.NoError(t, err)
		require.Zero(t, report.TotalCalls)
		require.Zero(t, report.ConnectionRate)
		require.Zero(t, report.AppointmentRate)
	})

	t.Run("appointed calls count toward connection", func(t *testing.T) {
		// The appointment rate denominator is connected calls only, so an
		// appointed call without a connected one still reports 0.
		st2 := newTestStore(t)
		calls2 := &CallLogService{Store: st2}
		svc2 := &DashboardService{Store: st2}
		agent := seedUser(t, st2, "agent:k3", "Solo", "k3@example.com", domain.RoleAgent)

		lead := seedLead(t, st2, domain.Lead{Name: "only appointed"})
		_, err := calls2.Create(ctx, domain.CallLog{LeadID: lead.ID, AgentID: agent.ID, Result: domain.LeadAppointed})
		require.NoError(t, err)

		report, err := svc2.KPI(ctx, domain.KPIFilter{})
		require.NoError(t, err)
		require.Equal(t, int64(1), report.TotalCalls)
		require.Zero(t, report.ConnectedCalls)
		require.Zero(t, report.AppointmentRate)
	})
}
