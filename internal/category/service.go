package category

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/filter"
	"github.com/kaspistat/catalog-service/internal/metrics"
	"github.com/kaspistat/catalog-service/internal/telemetry"
)

// defaultConcurrency bounds store calls in flight during tree fan-out.
const defaultConcurrency = 16

// Item is an incoming child category for Save.
type Item struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Service is the category tree engine.
type Service struct {
	store   Store
	logger  zerolog.Logger
	metrics *metrics.Recorder
	sem     *semaphore.Weighted
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithConcurrency bounds concurrent store calls during fan-out.
func WithConcurrency(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.sem = semaphore.NewWeighted(n)
		}
	}
}

// NewService creates a tree engine over store.
func NewService(store Store, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: logger.With().Str("component", "category").Logger(),
		sem:    semaphore.NewWeighted(defaultConcurrency),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// children loads direct children with the given status under the fan-out limit.
func (s *Service) children(ctx context.Context, parentID int64, status Status) ([]Category, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)
	return s.store.Children(ctx, parentID, status)
}

// FetchAllAsTree returns every active root with its full active subtree.
// Roots are loaded concurrently.
func (s *Service) FetchAllAsTree(ctx context.Context) ([]*SimpleNode, error) {
	ctx, span := telemetry.StartSpan(ctx, "category.FetchAllAsTree")
	defer span.End()
	start := time.Now()

	roots, err := s.store.Children(ctx, 0, StatusActive)
	if err != nil {
		return nil, fmt.Errorf("list root categories: %w", err)
	}

	result := make([]*SimpleNode, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		g.Go(func() error {
			node, err := s.loadTree(gctx, root, -1)
			if err != nil {
				return err
			}
			result[i] = node.Simple()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.metrics.RecordTreeFetch(time.Since(start))
	return result, nil
}

// FetchTree loads an active category and its active descendants. depth
// limits how many levels of children are loaded: 0 loads none and -1 loads
// everything down to the leaves.
func (s *Service) FetchTree(ctx context.Context, parentID int64, depth int) (*Node, error) {
	ctx, span := telemetry.StartSpan(ctx, "category.FetchTree",
		attribute.Int64("category.id", parentID), attribute.Int("depth", depth))
	defer span.End()

	root, err := s.store.GetActive(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", parentID, err)
	}
	if root == nil {
		return nil, apperr.NotFound(fmt.Sprintf("There is no category with id = %d", parentID))
	}
	return s.loadTree(ctx, *root, depth)
}

// loadTree walks the tree breadth first. Each level's sibling branches are
// fetched concurrently and joined before the next level starts.
func (s *Service) loadTree(ctx context.Context, root Category, depth int) (*Node, error) {
	arena := NewArena()
	arena.Add(root)
	if depth == 0 {
		return arena.Build(root.ID), nil
	}

	remaining := depth - 1
	frontier := []Category{root}
	for len(frontier) > 0 {
		levels := make([][]Category, len(frontier))
		g, gctx := errgroup.WithContext(ctx)
		for i, c := range frontier {
			g.Go(func() error {
				kids, err := s.children(gctx, c.ID, StatusActive)
				if err != nil {
					return fmt.Errorf("list children of %d: %w", c.ID, err)
				}
				levels[i] = kids
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		var next []Category
		for _, kids := range levels {
			for _, kid := range kids {
				if !arena.Add(kid) {
					s.logger.Warn().Int64("id", kid.ID).Int64("parent_id", kid.ParentID).
						Msg("category reached twice while loading tree, skipping")
					continue
				}
				next = append(next, kid)
			}
		}
		if remaining == 0 {
			break
		}
		remaining--
		frontier = next
	}
	return arena.Build(root.ID), nil
}

// FetchLeafIDs returns the ids of every childless node under categoryID.
func (s *Service) FetchLeafIDs(ctx context.Context, categoryID int64) ([]int64, error) {
	node, err := s.FetchTree(ctx, categoryID, -1)
	if err != nil {
		return nil, apperr.NotFound(fmt.Sprintf("Could not get category by id %d", categoryID), err)
	}
	return node.LeafIDs(), nil
}

// FetchByIDs looks categories up by id regardless of status. With freeOnly
// only categories open to non-premium callers are returned.
func (s *Service) FetchByIDs(ctx context.Context, ids []int64, freeOnly bool) ([]Category, error) {
	if len(ids) == 0 {
		return []Category{}, nil
	}
	rows, err := s.store.ListByIDs(ctx, lo.Uniq(ids), ListFilter{FreeOnly: freeOnly})
	if err != nil {
		return nil, fmt.Errorf("list categories by ids: %w", err)
	}
	return rows, nil
}

// FetchActiveByIDs looks up active categories by id.
func (s *Service) FetchActiveByIDs(ctx context.Context, ids []int64) ([]Category, error) {
	if len(ids) == 0 {
		return []Category{}, nil
	}
	rows, err := s.store.ListByIDs(ctx, lo.Uniq(ids), ListFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list active categories: %w", err)
	}
	return rows, nil
}

// Details projects the active children of parentID onto period. A
// parentID of 0 lists the roots.
func (s *Service) Details(ctx context.Context, parentID int64, period filter.Period) ([]DetailsRow, error) {
	rows, err := s.store.Children(ctx, parentID, StatusActive)
	if err != nil {
		return nil, fmt.Errorf("list category details: %w", err)
	}
	return lo.Map(rows, func(c Category, _ int) DetailsRow { return toDetails(c, period) }), nil
}
