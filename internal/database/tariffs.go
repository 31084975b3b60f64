package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kaspistat/catalog-service/internal/session"
	"github.com/kaspistat/catalog-service/internal/tariff"
)

// TariffStore is the pgx-backed tariff.Store.
type TariffStore struct {
	db conn
}

func NewTariffStore(db conn) *TariffStore {
	return &TariffStore{db: db}
}

var _ tariff.Store = (*TariffStore)(nil)

func scanTariff(row pgx.Row) (*tariff.Tariff, error) {
	var (
		t    tariff.Tariff
		role string
	)
	if err := row.Scan(&t.ID, &role, &t.Name, &t.Price, &t.Months, &t.Status); err != nil {
		return nil, err
	}
	t.Role = session.Role(role)
	return &t, nil
}

func (s *TariffStore) ListTariffs(ctx context.Context, status tariff.Status) ([]tariff.Tariff, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, role, name, price, months, status FROM tariffs WHERE status = $1 ORDER BY id
	`, int(status))
	if err != nil {
		return nil, fmt.Errorf("query tariffs: %w", err)
	}
	defer rows.Close()

	out := []tariff.Tariff{}
	for rows.Next() {
		t, err := scanTariff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tariff: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *TariffStore) GetTariff(ctx context.Context, id int64) (*tariff.Tariff, error) {
	t, err := scanTariff(s.db.QueryRow(ctx, `
		SELECT id, role, name, price, months, status FROM tariffs WHERE id = $1
	`, id))
	if missing, err := noRows(err); missing || err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TariffStore) CreateTariff(ctx context.Context, t *tariff.Tariff) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO tariffs (role, name, price, months, status) VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, string(t.Role), t.Name, t.Price, t.Months, int(t.Status)).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert tariff %q: %w", t.Name, err)
	}
	return nil
}

func (s *TariffStore) UpdateTariff(ctx context.Context, t *tariff.Tariff) error {
	_, err := s.db.Exec(ctx, `
		UPDATE tariffs SET role = $2, name = $3, price = $4, months = $5, status = $6 WHERE id = $1
	`, t.ID, string(t.Role), t.Name, t.Price, t.Months, int(t.Status))
	if err != nil {
		return fmt.Errorf("update tariff %d: %w", t.ID, err)
	}
	return nil
}

func (s *TariffStore) SetTariffStatus(ctx context.Context, id int64, status tariff.Status) (bool, error) {
	tag, err := s.db.Exec(ctx, `UPDATE tariffs SET status = $2 WHERE id = $1`, id, int(status))
	if err != nil {
		return false, fmt.Errorf("set status of tariff %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
