package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
	"github.com/telecrm/telecrm/pkg/cryptox"
)

func TestInviteIssue(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &InviteService{Store: st}

	t.Run("issues a redeemable invitation", func(t *testing.T) {
		token, inv, err := svc.Issue(ctx, "new.agent@example.com", domain.RoleAgent, 1)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.Equal(t, "new.agent@example.com", inv.Email)
		require.Equal(t, domain.RoleAgent, inv.Role)
		require.WithinDuration(t, time.Now().Add(domain.InvitationTTL), inv.ExpiresAt, time.Minute)

		// Only the fingerprint is stored.
		stored, err := st.Invitations().GetInvitationByTokenHash(ctx, cryptox.FingerprintToken(token))
		require.NoError(t, err)
		require.Equal(t, inv.ID, stored.ID)
		require.NotEqual(t, token, stored.TokenHash)
	})

	t.Run("rejects admin role", func(t *testing.T) {
		_, _, err := svc.Issue(ctx, "boss@example.com", domain.RoleAdmin, 1)
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, _, err := svc.Issue(ctx, "who@example.com", domain.Role("superuser"), 1)
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("rejects empty email", func(t *testing.T) {
		_, _, err := svc.Issue(ctx, "", domain.RoleViewer, 1)
		require.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestInviteVerify(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &InviteService{Store: st}

	t.Run("returns issued email and role", func(t *testing.T) {
		token, _, err := svc.Issue(ctx, "a@b.com", domain.RoleManager, 1)
		require.NoError(t, err)

		inv, err := svc.Verify(ctx, token)
		require.NoError(t, err)
		require.Equal(t, "a@b.com", inv.Email)
		require.Equal(t, domain.RoleManager, inv.Role)

		// Verify is read-only; a second call sees the same thing.
		again, err := svc.Verify(ctx, token)
		require.NoError(t, err)
		require.Equal(t, inv.ID, again.ID)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.Verify(ctx, "no-such-token")
		require.ErrorIs(t, err, ErrInvitationNotFound)
	})

	t.Run("expired invitation", func(t *testing.T) {
		token := seedInvitation(t, st, "late@example.com", domain.RoleAgent, time.Now().Add(-time.Hour))

		_, err := svc.Verify(ctx, token)
		require.ErrorIs(t, err, ErrInvitationExpired)
	})
}

func TestInviteAcceptLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &InviteService{Store: st}

	token, _, err := svc.Issue(ctx, "a@b.com", domain.RoleAgent, 1)
	require.NoError(t, err)

	inv, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", inv.Email)
	require.Equal(t, domain.RoleAgent, inv.Role)

	user, err := svc.Accept(ctx, token, "Alice", "pw1234")
	require.NoError(t, err)
	require.Equal(t, "local:a@b.com", user.OpenID)
	require.Equal(t, "Alice", user.Name)
	require.Equal(t, "a@b.com", user.Email)
	require.Equal(t, domain.LoginMethodLocal, user.LoginMethod)
	require.Equal(t, domain.RoleAgent, user.Role)
	require.NoError(t, cryptox.VerifyPassword("pw1234", user.PasswordHash))
	require.NotNil(t, user.LastSignedIn)

	// Single use: both accept and verify now report the conflict.
	_, err = svc.Accept(ctx, token, "Mallory", "hunter2")
	require.ErrorIs(t, err, ErrInvitationUsed)

	_, err = svc.Verify(ctx, token)
	require.ErrorIs(t, err, ErrInvitationUsed)
}

func TestInviteAcceptValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &InviteService{Store: st}

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Accept(ctx, "tok", "", "pw")
		require.ErrorIs(t, err, ErrInvalidRequest)

		_, err = svc.Accept(ctx, "tok", "Name", "")
		require.ErrorIs(t, err, ErrInvalidRequest)

		_, err = svc.Accept(ctx, "", "Name", "pw")
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.Accept(ctx, "bogus", "Name", "pw1234")
		require.ErrorIs(t, err, ErrInvitationNotFound)
	})

	t.Run("expired invitation cannot be accepted", func(t *testing.T) {
		token := seedInvitation(t, st, "slow@example.com", domain.RoleViewer, time.Now().Add(-time.Minute))

		_, err := svc.Accept(ctx, token, "Slow Poke", "pw1234")
		require.ErrorIs(t, err, ErrInvitationExpired)

		// Nothing was created.
		_, err = st.Users().GetUserByOpenID(ctx, "local:slow@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
