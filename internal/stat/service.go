package stat

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kaspistat/catalog-service/internal/product"
	"github.com/kaspistat/catalog-service/internal/telemetry"
)

// HistoryReader loads history rows newest first.
type HistoryReader interface {
	// HistoryBetween returns rows created in [from, to].
	HistoryBetween(ctx context.Context, productID int64, from, to time.Time) ([]product.History, error)
	// LatestHistory returns at most limit rows.
	LatestHistory(ctx context.Context, productID int64, limit int) ([]product.History, error)
}

// Service loads and projects product history.
type Service struct {
	reader HistoryReader
	logger zerolog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(reader HistoryReader, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		reader: reader,
		logger: logger.With().Str("component", "stat").Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch projects the product's history over period for the given types.
func (s *Service) Fetch(ctx context.Context, productID int64, period int, types []Type, mode Mode) (Stat, error) {
	ctx, span := telemetry.StartSpan(ctx, "stat.Fetch",
		attribute.Int64("product.id", productID),
		attribute.Int("period", period),
		attribute.String("mode", string(mode)),
	)
	defer span.End()

	if mode == ModeValues {
		rows, err := s.reader.LatestHistory(ctx, productID, period)
		if err != nil {
			return Stat{}, fmt.Errorf("latest history of %d: %w", productID, err)
		}
		return ByValues(rows, types), nil
	}

	today := s.now().UTC()
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	from := midnight.AddDate(0, 0, -period)
	to := midnight.Add(-time.Nanosecond)
	rows, err := s.reader.HistoryBetween(ctx, productID, from, to)
	if err != nil {
		return Stat{}, fmt.Errorf("history of %d: %w", productID, err)
	}
	s.logger.Debug().Int64("product_id", productID).Int("rows", len(rows)).Msg("projecting history by dates")
	return ByDates(rows, period, types, today), nil
}
