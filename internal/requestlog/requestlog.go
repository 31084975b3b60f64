// Package requestlog records product-details lookups for auditing.
package requestlog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaspistat/catalog-service/internal/metrics"
	"github.com/kaspistat/catalog-service/internal/product"
	"github.com/kaspistat/catalog-service/internal/session"
)

// Entry statuses.
const (
	StatusFailed = 0
	StatusOK     = 1
)

// Entry is one audited lookup.
type Entry struct {
	ID               int64
	Code             string
	URL              string
	SessionID        int64
	Status           int
	ErrorDescription string
	CreatedAt        time.Time
}

type Store interface {
	InsertRequest(ctx context.Context, e *Entry) error
	// DeleteRequestsBefore removes entries created before t and returns
	// how many were removed.
	DeleteRequestsBefore(ctx context.Context, t time.Time) (int64, error)
}

type Service struct {
	store   Store
	logger  zerolog.Logger
	metrics *metrics.Recorder
}

func NewService(store Store, logger zerolog.Logger, m *metrics.Recorder) *Service {
	return &Service{
		store:   store,
		logger:  logger.With().Str("component", "requestlog").Logger(),
		metrics: m,
	}
}

// NewEntry builds the entry for query. A numeric query is a code; anything
// else is kept as the url and the code is extracted from it when possible.
// A non-empty fail marks the entry failed.
func NewEntry(sess session.Session, query, fail string) Entry {
	e := Entry{SessionID: sess.SessionID, Status: StatusOK, ErrorDescription: fail}
	if product.IsNumericCode(query) {
		e.Code = query
	} else {
		e.URL = query
		e.Code = product.CodeFromURL(query)
	}
	if fail != "" {
		e.Status = StatusFailed
	}
	return e
}

// Log stores the entry for query.
func (s *Service) Log(ctx context.Context, sess session.Session, query, fail string) error {
	e := NewEntry(sess, query, fail)
	if err := s.store.InsertRequest(ctx, &e); err != nil {
		return fmt.Errorf("insert request log: %w", err)
	}
	return nil
}

// Purge removes entries older than retention.
func (s *Service) Purge(ctx context.Context, now time.Time, retention time.Duration) (int64, error) {
	cutoff := now.Add(-retention)
	n, err := s.store.DeleteRequestsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge request log: %w", err)
	}
	s.metrics.RecordRequestLogPurged(n)
	s.logger.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("request log purged")
	return n, nil
}
