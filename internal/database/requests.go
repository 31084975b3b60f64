package database

import (
	"context"
	"fmt"
	"time"

	"github.com/kaspistat/catalog-service/internal/requestlog"
)

// RequestLogStore is the pgx-backed requestlog.Store.
type RequestLogStore struct {
	db conn
}

func NewRequestLogStore(db conn) *RequestLogStore {
	return &RequestLogStore{db: db}
}

var _ requestlog.Store = (*RequestLogStore)(nil)

func (s *RequestLogStore) InsertRequest(ctx context.Context, e *requestlog.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO product_requests (code, url, session_id, status, error_description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, e.Code, e.URL, e.SessionID, e.Status, e.ErrorDescription, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert product request: %w", err)
	}
	return nil
}

func (s *RequestLogStore) DeleteRequestsBefore(ctx context.Context, t time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM product_requests WHERE created_at < $1`, t)
	if err != nil {
		return 0, fmt.Errorf("delete product requests before %s: %w", t.Format(time.RFC3339), err)
	}
	return tag.RowsAffected(), nil
}
