package sqlite

import (
	"context"
	"database/sql"

	"github.com/telecrm/telecrm/internal/crm/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the caller commits or rolls back and the outer DB stays open.
func (t *txStore) Close() error { return nil }

// Ping is a no-op inside a transaction.
func (t *txStore) Ping(ctx context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, sql.ErrTxDone }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

// ApplyMigrations is a no-op; migrations run before any transaction starts.
func (t *txStore) ApplyMigrations() error { return nil }

func (t *txStore) Users() store.Users               { return &usersRepo{db: t.tx} }
func (t *txStore) Invitations() store.Invitations   { return &invitationsRepo{db: t.tx} }
func (t *txStore) Leads() store.Leads               { return &leadsRepo{db: t.tx} }
func (t *txStore) CallLogs() store.CallLogs         { return &callLogsRepo{db: t.tx} }
func (t *txStore) Appointments() store.Appointments { return &appointmentsRepo{db: t.tx} }
func (t *txStore) Lists() store.Lists               { return &listsRepo{db: t.tx} }
func (t *txStore) Campaigns() store.Campaigns       { return &campaignsRepo{db: t.tx} }
func (t *txStore) Assignments() store.Assignments   { return &assignmentsRepo{db: t.tx} }
func (t *txStore) ActivityLogs() store.ActivityLogs { return &activityLogsRepo{db: t.tx} }
