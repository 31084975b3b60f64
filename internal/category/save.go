package category

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/telemetry"
)

// Save reconciles the direct children of parentID against items, matching
// by case-insensitive URL. Matched children are renamed and reactivated,
// new items become children one level below the parent, and old children
// without a match are deactivated with their subtrees. An empty items list
// deactivates the parent and its whole subtree.
//
// The result is the fresh, active set of matched and created children.
func (s *Service) Save(ctx context.Context, parentID int64, items []Item) ([]*Node, error) {
	ctx, span := telemetry.StartSpan(ctx, "category.Save",
		attribute.Int64("category.parent_id", parentID), attribute.Int("items", len(items)))
	defer span.End()

	parent, err := s.store.Get(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("get parent category %d: %w", parentID, err)
	}
	if parent == nil {
		return nil, apperr.NotFound(fmt.Sprintf("There is no category with id = %d", parentID))
	}

	if len(items) == 0 {
		if err := s.SetStatusToTree(ctx, *parent, false, false); err != nil {
			return nil, err
		}
		return []*Node{}, nil
	}

	old, err := s.store.AllChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("list children of %d: %w", parentID, err)
	}

	resultIDs := make([]int64, 0, len(items))
	for _, item := range items {
		_, idx, found := lo.FindIndexOf(old, func(c Category) bool { return SameText(item.URL, c.URL) })
		if found {
			match := &old[idx]
			match.Name = item.Name
			match.Status = StatusActive
			if err := s.store.Update(ctx, match); err != nil {
				return nil, fmt.Errorf("update category %d: %w", match.ID, err)
			}
			resultIDs = append(resultIDs, match.ID)
			continue
		}

		c := &Category{
			ParentID: parent.ID,
			Name:     item.Name,
			URL:      item.URL,
			Level:    parent.Level + 1,
			Status:   StatusActive,
		}
		if err := s.store.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("create category %q: %w", item.Name, err)
		}
		s.metrics.RecordCategoryCreated("save")
		resultIDs = append(resultIDs, c.ID)
	}

	for _, c := range old {
		kept := lo.ContainsBy(items, func(item Item) bool { return SameText(item.URL, c.URL) })
		if kept {
			continue
		}
		if err := s.SetStatusToTree(ctx, c, false, false); err != nil {
			return nil, err
		}
	}

	rows, err := s.FetchActiveByIDs(ctx, resultIDs)
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(c Category, _ int) *Node { return newNode(c) }), nil
}

// SetStatusToTree sets the status of c and its descendants. Only children
// whose status differs from the target are visited. With excludeSelf the
// node keeps its own status but is still persisted; descendants are always
// flipped. Sibling branches run concurrently and join before returning.
//
// A node is persisted with its new status before its children are
// visited, so corrupted parent pointers forming a cycle terminate.
func (s *Service) SetStatusToTree(ctx context.Context, c Category, active, excludeSelf bool) error {
	kids, err := s.children(ctx, c.ID, statusOf(!active))
	if err != nil {
		return fmt.Errorf("list children of %d: %w", c.ID, err)
	}

	if !excludeSelf {
		c.Status = statusOf(active)
	}
	if err := s.store.Update(ctx, &c); err != nil {
		return fmt.Errorf("update category %d status: %w", c.ID, err)
	}
	s.metrics.RecordCategoryStatus(c.Active())

	if len(kids) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, kid := range kids {
		g.Go(func() error {
			return s.SetStatusToTree(gctx, kid, active, false)
		})
	}
	return g.Wait()
}
