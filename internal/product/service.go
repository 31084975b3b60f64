package product

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/metrics"
	"github.com/kaspistat/catalog-service/internal/session"
	"github.com/kaspistat/catalog-service/internal/telemetry"
)

// Service is the product aggregation engine.
type Service struct {
	store      Store
	categories Categories
	logger     zerolog.Logger
	metrics    *metrics.Recorder
	now        func() time.Time
	strictSave bool
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithStrictSave runs every detail save in a single transaction.
func WithStrictSave(strict bool) Option {
	return func(s *Service) { s.strictSave = strict }
}

// NewService creates the engine.
func NewService(store Store, categories Categories, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		store:      store,
		categories: categories,
		logger:     logger.With().Str("component", "product").Logger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add upserts a base product row. An existing product is found by code,
// falling back to url, or by url alone when no code is given. Non-empty
// incoming fields are merged over it.
func (s *Service) Add(ctx context.Context, sess session.Session, in AddInput) (*Product, error) {
	if !in.Valid() {
		return nil, apperr.Validation("Could not add product by this data")
	}
	return s.add(ctx, s.store, sess, in)
}

func (s *Service) add(ctx context.Context, store Store, sess session.Session, in AddInput) (*Product, error) {
	p, err := s.lookup(ctx, store, in)
	if err != nil {
		return nil, err
	}

	created := p == nil
	if created {
		p = &Product{
			Code:       in.Code,
			Title:      in.Title,
			URL:        in.URL,
			CategoryID: in.CategoryID(),
			Categories: in.Categories,
			SessionID:  sess.SessionID,
			Position:   in.Position,
		}
	} else {
		merge(p, in)
	}

	now := s.now()
	p.LastSeeAt = &now
	if in.CollectingID != 0 {
		p.CollectingID = in.CollectingID
	}

	if created {
		err = store.Create(ctx, p)
	} else {
		err = store.Update(ctx, p)
	}
	if err != nil {
		return nil, fmt.Errorf("store product: %w", err)
	}
	s.metrics.RecordProductAdd(created)
	return p, nil
}

func (s *Service) lookup(ctx context.Context, store Store, in AddInput) (*Product, error) {
	if in.Code != "" {
		p, err := store.GetByCode(ctx, in.Code)
		if err != nil || p != nil {
			return p, err
		}
	}
	if in.URL == "" {
		return nil, nil
	}
	return store.GetByURL(ctx, in.URL)
}

// merge applies in over p. The position only moves when a rank is sent;
// within the same collecting run the best rank seen wins.
func merge(p *Product, in AddInput) {
	if in.Title != "" {
		p.Title = in.Title
	}
	if in.Code != "" {
		p.Code = in.Code
	}
	if in.URL != "" {
		p.URL = in.URL
	}
	if !in.Categories.Empty() {
		p.Categories = in.Categories
	}
	if id := in.CategoryID(); id > 0 {
		p.CategoryID = id
	}
	if in.Position > 0 {
		pos := in.Position
		if p.Position > 0 && in.CollectingID == p.CollectingID {
			pos = min(p.Position, pos)
		}
		p.Position = pos
	}
}

// AddAndUpdate stores a detailed submission: it resolves the category path,
// upserts the base row and applies the detail fields in one call.
func (s *Service) AddAndUpdate(ctx context.Context, sess session.Session, in *DetailedInput) (*Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "product.AddAndUpdate")
	defer span.End()

	if !in.Valid() {
		return nil, apperr.Validation("Could not add/update product by this data")
	}

	path, err := s.categories.AddPath(ctx, in.CategoryNames, in.CategoryURLs)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := in.SetCategories(path); err != nil {
		return nil, err
	}

	base := in.AddInput()
	if !base.Valid() {
		return nil, apperr.Validation("Could not add product by this data")
	}
	p, err := s.add(ctx, s.store, sess, base)
	if err != nil {
		return nil, err
	}
	if in.ID == 0 {
		if err := in.SetID(p.ID); err != nil {
			return nil, err
		}
	}
	return s.Save(ctx, sess, in.ID, in.SaveInput)
}
