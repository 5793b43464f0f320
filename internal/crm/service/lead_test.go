package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
)

func TestLeadCreateAndGet(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &LeadService{Store: st}

	t.Run("defaults status to unreached", func(t *testing.T) {
		lead, err := svc.Create(ctx, domain.Lead{Name: "山田 太郎", Company: "株式会社サンプル"})
		require.NoError(t, err)
		require.Equal(t, domain.LeadUnreached, lead.Status)
		require.NotZero(t, lead.ID)

		got, err := svc.Get(ctx, lead.ID)
		require.NoError(t, err)
		require.Equal(t, lead.Name, got.Name)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.Lead{})
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("rejects bogus status", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.Lead{Name: "X", Status: domain.LeadStatus("sideways")})
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("missing lead", func(t *testing.T) {
		_, err := svc.Get(ctx, 99999)
		require.ErrorIs(t, err, ErrLeadNotFound)
	})
}

func TestLeadListFilters(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &LeadService{Store: st}

	agent := seedUser(t, st, "agent:1", "Agent", "agent@example.com", domain.RoleAgent)
	seedLead(t, st, domain.Lead{Name: "A", Status: domain.LeadConnected, OwnerID: agent.ID})
	seedLead(t, st, domain.Lead{Name: "B", Status: domain.LeadUnreached, OwnerID: agent.ID})
	seedLead(t, st, domain.Lead{Name: "C", Status: domain.LeadConnected})

	byStatus, err := svc.List(ctx, domain.LeadFilter{Status: domain.LeadConnected})
	require.NoError(t, err)
	require.Len(t, byStatus, 2)

	byOwner, err := svc.List(ctx, domain.LeadFilter{OwnerID: agent.ID})
	require.NoError(t, err)
	require.Len(t, byOwner, 2)

	both, err := svc.List(ctx, domain.LeadFilter{Status: domain.LeadConnected, OwnerID: agent.ID})
	require.NoError(t, err)
	require.Len(t, both, 1)
	require.Equal(t, "A", both[0].Name)
}

func TestLeadNextOrdering(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &LeadService{Store: st}

	agent := seedUser(t, st, "agent:2", "Agent", "agent2@example.com", domain.RoleAgent)
	now := time.Now().UTC()

	// Connected leads are not dialable and must never surface.
	seedLead(t, st, domain.Lead{Name: "done", Status: domain.LeadConnected, OwnerID: agent.ID})
	noAction := seedLead(t, st, domain.Lead{Name: "no action time", Status: domain.LeadUnreached, OwnerID: agent.ID})
	later := seedLead(t, st, domain.Lead{
		Name: "later", Status: domain.LeadCallbackRequested, OwnerID: agent.ID,
		NextActionAt: timeRef(now.Add(2 * time.Hour)),
	})
	soon := seedLead(t, st, domain.Lead{
		Name: "soon", Status: domain.LeadUnreached, OwnerID: agent.ID,
		NextActionAt: timeRef(now.Add(10 * time.Minute)),
	})

	next, err := svc.Next(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, soon.ID, next.ID)

	// Work through the queue: earliest next_action_at first, then leads
	// without one.
	_, err = svc.Update(ctx, soon.ID, store.LeadUpdate{Status: statusRef(domain.LeadConnected)})
	require.NoError(t, err)

	next, err = svc.Next(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, later.ID, next.ID)

	_, err = svc.Update(ctx, later.ID, store.LeadUpdate{Status: statusRef(domain.LeadNG)})
	require.NoError(t, err)

	next, err = svc.Next(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, noAction.ID, next.ID)

	_, err = svc.Update(ctx, noAction.ID, store.LeadUpdate{Status: statusRef(domain.LeadLost)})
	require.NoError(t, err)

	_, err = svc.Next(ctx, agent.ID)
	require.ErrorIs(t, err, ErrLeadNotFound)
}

func TestLeadImportDuplicateDetection(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &LeadService{Store: st}

	manager := seedUser(t, st, "manager:1", "Manager", "mgr@example.com", domain.RoleManager)

	listID, err := st.Lists().CreateList(ctx, domain.List{Name: "batch-1", CreatedBy: manager.ID})
	require.NoError(t, err)

	seedLead(t, st, domain.Lead{Name: "existing", Phone: "03-1111-2222"})
	seedLead(t, st, domain.Lead{Name: "emailed", Email: "dup@example.com"})

	result, err := svc.Import(ctx, []domain.Lead{
		{Name: "fresh one", Phone: "03-9999-0000"},
		{Name: "same phone", Phone: "03-1111-2222"},              // dup by phone
		{Name: "same email", Email: "dup@example.com"},           // dup by email
		{Name: "existing", Company: ""},                          // no match without company
		{Name: "fresh two", Email: "fresh@example.com"},          // new
		{Name: "fresh one", Phone: "03-9999-0000", Memo: "rows"}, // dup of first row in this batch
	}, listID, 0, manager.ID)
	require.NoError(t, err)
	require.Equal(t, 3, result.Imported)
	require.Equal(t, 3, result.Duplicates)

	list, err := st.Lists().GetListByID(ctx, listID)
	require.NoError(t, err)
	require.Equal(t, int64(result.Imported), list.TotalCount)

	t.Run("company plus name match", func(t *testing.T) {
		seedLead(t, st, domain.Lead{Name: "鈴木 一郎", Company: "サンプル工業"})

		result, err := svc.Import(ctx, []domain.Lead{
			{Name: "鈴木 一郎", Company: "サンプル工業"},
			{Name: "鈴木 一郎", Company: "別の会社"},
		}, 0, 0, manager.ID)
		require.NoError(t, err)
		require.Equal(t, 1, result.Imported)
		require.Equal(t, 1, result.Duplicates)
	})

	t.Run("empty batch", func(t *testing.T) {
		_, err := svc.Import(ctx, nil, 0, 0, manager.ID)
		require.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestLeadAssign(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &LeadService{Store: st}

	manager := seedUser(t, st, "manager:2", "Manager", "mgr2@example.com", domain.RoleManager)
	agent := seedUser(t, st, "agent:3", "Agent", "agent3@example.com", domain.RoleAgent)

	a := seedLead(t, st, domain.Lead{Name: "lead a"})
	b := seedLead(t, st, domain.Lead{Name: "lead b"})

	require.NoError(t, svc.Assign(ctx, []int64{a.ID, b.ID}, agent.ID, manager.ID))

	for _, id := range []int64{a.ID, b.ID} {
		lead, err := st.Leads().GetLeadByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, agent.ID, lead.OwnerID)
	}

	assignments, err := st.Assignments().ListAssignmentsByAgent(ctx, agent.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	activity, err := st.ActivityLogs().ListActivityLogsByUser(ctx, manager.ID, 10)
	require.NoError(t, err)
	require.Len(t, activity, 2)
	require.Equal(t, "lead_assigned", activity[0].Action)

	t.Run("unknown agent rolls back nothing", func(t *testing.T) {
		err := svc.Assign(ctx, []int64{a.ID}, 99999, manager.ID)
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("unknown lead rolls the batch back", func(t *testing.T) {
		c := seedLead(t, st, domain.Lead{Name: "lead c"})

		err := svc.Assign(ctx, []int64{c.ID, 99999}, agent.ID, manager.ID)
		require.ErrorIs(t, err, ErrLeadNotFound)

		// The first lead of the failed batch kept its old owner.
		lead, err := st.Leads().GetLeadByID(ctx, c.ID)
		require.NoError(t, err)
		require.Zero(t, lead.OwnerID)
	})
}

func statusRef(s domain.LeadStatus) *domain.LeadStatus { return &s }
