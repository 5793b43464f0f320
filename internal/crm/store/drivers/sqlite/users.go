package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, open_id, name, email, login_method, role, password_hash, last_signed_in, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u            domain.User
		role         string
		lastSignedIn sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.OpenID, &u.Name, &u.Email, &u.LoginMethod,
		&role, &u.PasswordHash, &lastSignedIn, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	u.LastSignedIn = timePtr(lastSignedIn)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByOpenID(ctx context.Context, openID string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE open_id = ?`, openID)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpsertUser inserts a user keyed by open_id, or updates just the provided
// fields on conflict. The update clause is built dynamically so an OAuth
// sign-in never clobbers a role or password hash it did not mention.
func (r *usersRepo) UpsertUser(ctx context.Context, u store.UserUpsert) error {
	if u.OpenID == "" {
		return fmt.Errorf("sqlite: upsert requires open_id")
	}

	now := time.Now().UTC()

	insert := struct {
		name, email, loginMethod, passwordHash string
		role                                   string
		lastSignedIn                           sql.NullTime
	}{role: string(domain.RoleViewer), lastSignedIn: sql.NullTime{Time: now, Valid: true}}

	var (
		set  []string
		args []any
	)
	assign := func(column string, insertDst *string, v *string) {
		if v == nil {
			return
		}
		*insertDst = *v
		set = append(set, column+" = ?")
		args = append(args, *v)
	}

	assign("name", &insert.name, u.Name)
	assign("email", &insert.email, u.Email)
	assign("login_method", &insert.loginMethod, u.LoginMethod)
	assign("password_hash", &insert.passwordHash, u.PasswordHash)
	if u.Role != nil {
		insert.role = string(*u.Role)
		set = append(set, "role = ?")
		args = append(args, string(*u.Role))
	}
	if u.LastSignedIn != nil {
		insert.lastSignedIn = sql.NullTime{Time: *u.LastSignedIn, Valid: true}
		set = append(set, "last_signed_in = ?")
		args = append(args, *u.LastSignedIn)
	}

	// A conflicting upsert with nothing to change still refreshes the
	// sign-in timestamp.
	if len(set) == 0 {
		set = append(set, "last_signed_in = ?")
		args = append(args, now)
	}
	set = append(set, "updated_at = ?")
	args = append(args, now)

	query := `INSERT INTO users (open_id, name, email, login_method, role, password_hash, last_signed_in, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (open_id) DO UPDATE SET ` + strings.Join(set, ", ")

	insertArgs := []any{
		u.OpenID, insert.name, insert.email, insert.loginMethod,
		insert.role, insert.passwordHash, insert.lastSignedIn, now, now,
	}

	_, err := r.db.ExecContext(ctx, query, append(insertArgs, args...)...)
	return err
}

func (r *usersRepo) UpdateUserRole(ctx context.Context, userID int64, role domain.Role) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		string(role), time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) UpdateLastSignedIn(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_signed_in = ?, updated_at = ? WHERE id = ?`,
		at, time.Now().UTC(), userID)
	return err
}
