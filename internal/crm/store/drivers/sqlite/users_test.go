package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func strPtr(s string) *string { return &s }

func rolePtr(r domain.Role) *domain.Role { return &r }

func TestUpsertUser(t *testing.T) {
	ctx := context.Background()

	t.Run("insert defaults to viewer", func(t *testing.T) {
		st := newTestStore(t)

		err := st.Users().UpsertUser(ctx, store.UserUpsert{
			OpenID:      "google:alice",
			Name:        strPtr("Alice"),
			Email:       strPtr("alice@example.com"),
			LoginMethod: strPtr("google"),
		})
		require.NoError(t, err)

		u, err := st.Users().GetUserByOpenID(ctx, "google:alice")
		require.NoError(t, err)
		require.Equal(t, "Alice", u.Name)
		require.Equal(t, "alice@example.com", u.Email)
		require.Equal(t, domain.RoleViewer, u.Role)
		require.NotNil(t, u.LastSignedIn)
	})

	t.Run("conflict updates only the provided fields", func(t *testing.T) {
		st := newTestStore(t)

		require.NoError(t, st.Users().UpsertUser(ctx, store.UserUpsert{
			OpenID:       "local:bob@example.com",
			Name:         strPtr("Bob"),
			Email:        strPtr("bob@example.com"),
			LoginMethod:  strPtr("local"),
			Role:         rolePtr(domain.RoleAgent),
			PasswordHash: strPtr("$argon2id$stored"),
		}))

		// An OAuth-style refresh mentions the name only. Role and password
		// hash must survive.
		require.NoError(t, st.Users().UpsertUser(ctx, store.UserUpsert{
			OpenID: "local:bob@example.com",
			Name:   strPtr("Robert"),
		}))

		u, err := st.Users().GetUserByOpenID(ctx, "local:bob@example.com")
		require.NoError(t, err)
		require.Equal(t, "Robert", u.Name)
		require.Equal(t, domain.RoleAgent, u.Role)
		require.Equal(t, "$argon2id$stored", u.PasswordHash)
		require.Equal(t, "bob@example.com", u.Email)
	})

	t.Run("conflict with no fields still refreshes last_signed_in", func(t *testing.T) {
		st := newTestStore(t)

		signedIn := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, st.Users().UpsertUser(ctx, store.UserUpsert{
			OpenID:       "google:carol",
			Name:         strPtr("Carol"),
			LastSignedIn: &signedIn,
		}))

		require.NoError(t, st.Users().UpsertUser(ctx, store.UserUpsert{OpenID: "google:carol"}))

		u, err := st.Users().GetUserByOpenID(ctx, "google:carol")
		require.NoError(t, err)
		require.NotNil(t, u.LastSignedIn)
		require.True(t, u.LastSignedIn.After(signedIn))
	})

	t.Run("rejects a missing open_id", func(t *testing.T) {
		st := newTestStore(t)
		require.Error(t, st.Users().UpsertUser(ctx, store.UserUpsert{Name: strPtr("Nobody")}))
	})
}

func TestUpdateUserRole(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.Users().UpsertUser(ctx, store.UserUpsert{
		OpenID: "google:dave",
		Name:   strPtr("Dave"),
	}))
	u, err := st.Users().GetUserByOpenID(ctx, "google:dave")
	require.NoError(t, err)

	require.NoError(t, st.Users().UpdateUserRole(ctx, u.ID, domain.RoleManager))

	u, err = st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleManager, u.Role)

	err = st.Users().UpdateUserRole(ctx, 9999, domain.RoleAgent)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetUserNotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.Users().GetUserByID(ctx, 1)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Users().GetUserByOpenID(ctx, "google:ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Users().GetUserByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}
