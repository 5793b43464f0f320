package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
)

type leadsRepo struct {
	db dbtx
}

const leadColumns = `id, name, company, phone, email, prefecture, industry, memo,
	status, next_action_at, owner_id, list_id, campaign_id, created_at, updated_at`

func scanLead(row interface{ Scan(...any) error }) (domain.Lead, error) {
	var (
		l            domain.Lead
		status       string
		nextActionAt sql.NullTime
	)
	err := row.Scan(
		&l.ID, &l.Name, &l.Company, &l.Phone, &l.Email, &l.Prefecture,
		&l.Industry, &l.Memo, &status, &nextActionAt,
		&l.OwnerID, &l.ListID, &l.CampaignID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}
	l.Status = domain.LeadStatus(status)
	l.NextActionAt = timePtr(nextActionAt)
	return l, nil
}

func (r *leadsRepo) CreateLead(ctx context.Context, l domain.Lead) (int64, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO leads (name, company, phone, email, prefecture, industry, memo,
			status, next_action_at, owner_id, list_id, campaign_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.Name, l.Company, l.Phone, l.Email, l.Prefecture, l.Industry, l.Memo,
		string(l.Status), nullTime(l.NextActionAt), l.OwnerID, l.ListID, l.CampaignID,
		now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *leadsRepo) GetLeadByID(ctx context.Context, id int64) (domain.Lead, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	l, err := scanLead(row)
	if err != nil {
		return domain.Lead{}, mapNotFound(err)
	}
	return l, nil
}

func (r *leadsRepo) ListLeads(ctx context.Context, f domain.LeadFilter) ([]domain.Lead, error) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.OwnerID != 0 {
		conds = append(conds, "owner_id = ?")
		args = append(args, f.OwnerID)
	}
	if f.ListID != 0 {
		conds = append(conds, "list_id = ?")
		args = append(args, f.ListID)
	}
	if f.CampaignID != 0 {
		conds = append(conds, "campaign_id = ?")
		args = append(args, f.CampaignID)
	}

	query := `SELECT ` + leadColumns + ` FROM leads`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	return r.queryLeads(ctx, query, args...)
}

func (r *leadsRepo) ListLeadsByOwner(ctx context.Context, ownerID int64) ([]domain.Lead, error) {
	return r.queryLeads(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID)
}

func (r *leadsRepo) GetNextLead(ctx context.Context, ownerID int64) (domain.Lead, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads
		 WHERE owner_id = ? AND status IN (?, ?)
		 ORDER BY next_action_at IS NULL, next_action_at, created_at, id
		 LIMIT 1`,
		ownerID, string(domain.LeadUnreached), string(domain.LeadCallbackRequested))
	l, err := scanLead(row)
	if err != nil {
		return domain.Lead{}, mapNotFound(err)
	}
	return l, nil
}

func (r *leadsRepo) UpdateLead(ctx context.Context, id int64, u store.LeadUpdate) error {
	var (
		set  []string
		args []any
	)
	assign := func(column string, v any) {
		set = append(set, column+" = ?")
		args = append(args, v)
	}

	if u.Name != nil {
		assign("name", *u.Name)
	}
	if u.Company != nil {
		assign("company", *u.Company)
	}
	if u.Phone != nil {
		assign("phone", *u.Phone)
	}
	if u.Email != nil {
		assign("email", *u.Email)
	}
	if u.Prefecture != nil {
		assign("prefecture", *u.Prefecture)
	}
	if u.Industry != nil {
		assign("industry", *u.Industry)
	}
	if u.Memo != nil {
		assign("memo", *u.Memo)
	}
	if u.Status != nil {
		assign("status", string(*u.Status))
	}
	if u.NextActionAt != nil {
		assign("next_action_at", *u.NextActionAt)
	}
	if u.OwnerID != nil {
		assign("owner_id", *u.OwnerID)
	}
	if len(set) == 0 {
		return nil
	}
	assign("updated_at", time.Now().UTC())

	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		`UPDATE leads SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// FindDuplicateLead mirrors the import dedupe rules: phone beats email beats
// company+name.
func (r *leadsRepo) FindDuplicateLead(ctx context.Context, phone, email, company, name string) (domain.Lead, error) {
	if phone != "" {
		row := r.db.QueryRowContext(ctx,
			`SELECT `+leadColumns+` FROM leads WHERE phone = ? LIMIT 1`, phone)
		if l, err := scanLead(row); err == nil {
			return l, nil
		} else if err != sql.ErrNoRows {
			return domain.Lead{}, err
		}
	}
	if email != "" {
		row := r.db.QueryRowContext(ctx,
			`SELECT `+leadColumns+` FROM leads WHERE email = ? LIMIT 1`, email)
		if l, err := scanLead(row); err == nil {
			return l, nil
		} else if err != sql.ErrNoRows {
			return domain.Lead{}, err
		}
	}
	if company != "" && name != "" {
		row := r.db.QueryRowContext(ctx,
			`SELECT `+leadColumns+` FROM leads WHERE company = ? AND name = ? LIMIT 1`, company, name)
		if l, err := scanLead(row); err == nil {
			return l, nil
		} else if err != sql.ErrNoRows {
			return domain.Lead{}, err
		}
	}
	return domain.Lead{}, store.ErrNotFound
}

func (r *leadsRepo) queryLeads(ctx context.Context, query string, args ...any) ([]domain.Lead, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}
