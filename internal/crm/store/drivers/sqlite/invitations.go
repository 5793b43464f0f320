package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
)

type invitationsRepo struct {
	db dbtx
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invitations (id, email, token_hash, role, expires_at, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Email, inv.TokenHash, string(inv.Role),
		inv.ExpiresAt, inv.CreatedBy, time.Now().UTC())
	return err
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, token_hash, role, expires_at, accepted_at, created_by, created_at
		 FROM invitations WHERE token_hash = ?`, hash)

	var (
		inv        domain.Invitation
		role       string
		acceptedAt sql.NullTime
	)
	err := row.Scan(&inv.ID, &inv.Email, &inv.TokenHash, &role,
		&inv.ExpiresAt, &acceptedAt, &inv.CreatedBy, &inv.CreatedAt)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	inv.Role = domain.Role(role)
	inv.AcceptedAt = timePtr(acceptedAt)
	return inv, nil
}

func (r *invitationsRepo) MarkInvitationAccepted(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invitations SET accepted_at = ? WHERE id = ? AND accepted_at IS NULL`,
		at, id)
	if err != nil {
		return err
	}
	// Zero rows means the id is unknown or someone accepted first.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}
