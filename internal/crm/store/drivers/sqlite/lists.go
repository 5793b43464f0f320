package sqlite

import (
	"context"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
)

type listsRepo struct {
	db dbtx
}

func (r *listsRepo) CreateList(ctx context.Context, l domain.List) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO lists (name, description, created_by, total_count, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		l.Name, l.Description, l.CreatedBy, l.TotalCount, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *listsRepo) GetListByID(ctx context.Context, id int64) (domain.List, error) {
	var l domain.List
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_by, total_count, created_at
		 FROM lists WHERE id = ?`, id).
		Scan(&l.ID, &l.Name, &l.Description, &l.CreatedBy, &l.TotalCount, &l.CreatedAt)
	if err != nil {
		return domain.List{}, mapNotFound(err)
	}
	return l, nil
}

func (r *listsRepo) ListAllLists(ctx context.Context) ([]domain.List, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_by, total_count, created_at
		 FROM lists ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []domain.List
	for rows.Next() {
		var l domain.List
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.CreatedBy, &l.TotalCount, &l.CreatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func (r *listsRepo) UpdateListCount(ctx context.Context, id int64, count int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE lists SET total_count = ? WHERE id = ?`, count, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}
