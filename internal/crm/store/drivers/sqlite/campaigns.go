package sqlite

import (
	"context"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
)

type campaignsRepo struct {
	db dbtx
}

func (r *campaignsRepo) CreateCampaign(ctx context.Context, c domain.Campaign) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO campaigns (name, description, created_by, created_at)
		 VALUES (?, ?, ?, ?)`,
		c.Name, c.Description, c.CreatedBy, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *campaignsRepo) GetCampaignByID(ctx context.Context, id int64) (domain.Campaign, error) {
	var c domain.Campaign
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_by, created_at
		 FROM campaigns WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		return domain.Campaign{}, mapNotFound(err)
	}
	return c, nil
}

func (r *campaignsRepo) ListAllCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_by, created_at
		 FROM campaigns ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}
