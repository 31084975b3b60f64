package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kaspistat/catalog-service/internal/category"
)

// CategoryStore is the pgx-backed category.Store.
type CategoryStore struct {
	db conn
}

// NewCategoryStore binds a store to the pool.
func NewCategoryStore(db conn) *CategoryStore {
	return &CategoryStore{db: db}
}

var _ category.Store = (*CategoryStore)(nil)

const categoryColumns = `id, parent_id, name, url, level, status, free, metrics`

func scanCategory(row pgx.Row) (*category.Category, error) {
	var (
		c       category.Category
		metrics []byte
	)
	if err := row.Scan(&c.ID, &c.ParentID, &c.Name, &c.URL, &c.Level, &c.Status, &c.Free, &metrics); err != nil {
		return nil, err
	}
	if len(metrics) > 0 {
		if err := json.Unmarshal(metrics, &c.Metrics); err != nil {
			return nil, fmt.Errorf("decode metrics of category %d: %w", c.ID, err)
		}
	}
	return &c, nil
}

func (s *CategoryStore) one(ctx context.Context, query string, args ...any) (*category.Category, error) {
	c, err := scanCategory(s.db.QueryRow(ctx, query, args...))
	if missing, err := noRows(err); missing || err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryStore) many(ctx context.Context, query string, args ...any) ([]category.Category, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	out := []category.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *CategoryStore) Get(ctx context.Context, id int64) (*category.Category, error) {
	return s.one(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
}

func (s *CategoryStore) GetActive(ctx context.Context, id int64) (*category.Category, error) {
	return s.one(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND status = $2`,
		id, category.StatusActive)
}

func (s *CategoryStore) FindByNameLevel(ctx context.Context, name string, level int) (*category.Category, error) {
	return s.one(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE lower(name) = lower($1) AND level = $2
		ORDER BY id
		LIMIT 1
	`, name, level)
}

func (s *CategoryStore) Children(ctx context.Context, parentID int64, status category.Status) ([]category.Category, error) {
	return s.many(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE parent_id = $1 AND status = $2
		ORDER BY id
	`, parentID, status)
}

func (s *CategoryStore) AllChildren(ctx context.Context, parentID int64) ([]category.Category, error) {
	return s.many(ctx, `SELECT `+categoryColumns+` FROM categories WHERE parent_id = $1 ORDER BY id`, parentID)
}

func (s *CategoryStore) ListByIDs(ctx context.Context, ids []int64, f category.ListFilter) ([]category.Category, error) {
	if len(ids) == 0 {
		return []category.Category{}, nil
	}
	return s.many(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE id = ANY($1)
		  AND (NOT $2 OR status = 1)
		  AND (NOT $3 OR free)
		ORDER BY id
	`, ids, f.ActiveOnly, f.FreeOnly)
}

func (s *CategoryStore) Create(ctx context.Context, c *category.Category) error {
	metrics, err := json.Marshal(c.Metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	err = s.db.QueryRow(ctx, `
		INSERT INTO categories (parent_id, name, url, level, status, free, metrics)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, c.ParentID, c.Name, c.URL, c.Level, c.Status, c.Free, metrics).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert category %q: %w", c.Name, err)
	}
	return nil
}

func (s *CategoryStore) Update(ctx context.Context, c *category.Category) error {
	metrics, err := json.Marshal(c.Metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		UPDATE categories
		SET parent_id = $2, name = $3, url = $4, level = $5, status = $6, free = $7,
		    metrics = $8, updated_at = now()
		WHERE id = $1
	`, c.ID, c.ParentID, c.Name, c.URL, c.Level, c.Status, c.Free, metrics)
	if err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	return nil
}

func (s *CategoryStore) InTx(ctx context.Context, fn func(category.Store) error) error {
	return inTx(ctx, s.db, func(tx pgx.Tx) error {
		return fn(&CategoryStore{db: tx})
	})
}
