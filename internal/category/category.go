// Package category implements the category tree engine: recursive fetches,
// soft-delete status cascades, child reconciliation and idempotent path upserts.
package category

import (
	"context"

	"github.com/kaspistat/catalog-service/internal/filter"
)

// MaxLevel is the deepest level a category path may reach.
const MaxLevel = 6

// Status is the soft-delete flag of a category.
type Status int

const (
	StatusInactive Status = 0
	StatusActive   Status = 1
)

func statusOf(active bool) Status {
	if active {
		return StatusActive
	}
	return StatusInactive
}

// Category is a persisted category row. Roots have ParentID 0.
type Category struct {
	ID       int64
	ParentID int64
	Name     string
	URL      string
	Level    int
	Status   Status
	Free     bool
	Metrics  Metrics
}

// Active reports whether the category is visible.
func (c Category) Active() bool { return c.Status == StatusActive }

// Windowed holds one metric over the 30, 60 and 90 day windows.
type Windowed struct {
	D30 float64
	D60 float64
	D90 float64
}

// At selects the value for p. PeriodNone yields 0.
func (w Windowed) At(p filter.Period) float64 {
	switch p {
	case filter.Period30:
		return w.D30
	case filter.Period60:
		return w.D60
	case filter.Period90:
		return w.D90
	default:
		return 0
	}
}

// Metrics are the precomputed per-window aggregates stored on a category.
type Metrics struct {
	Products       Windowed
	Brands         Windowed
	Offers         Windowed
	AvgPrice       Windowed
	Sales          Windowed
	Revenue        Windowed
	SalesToOffer   Windowed
	SalesToProduct Windowed
}

// ListFilter narrows a batch lookup.
type ListFilter struct {
	ActiveOnly bool
	FreeOnly   bool
}

// Store is the persistence contract of the tree engine. Point lookups
// return (nil, nil) when nothing matches.
type Store interface {
	Get(ctx context.Context, id int64) (*Category, error)
	GetActive(ctx context.Context, id int64) (*Category, error)
	// FindByNameLevel matches name case-insensitively and exactly.
	FindByNameLevel(ctx context.Context, name string, level int) (*Category, error)
	// Children lists direct children of parentID with the given status, ordered by id.
	Children(ctx context.Context, parentID int64, status Status) ([]Category, error)
	// AllChildren lists direct children of parentID regardless of status.
	AllChildren(ctx context.Context, parentID int64) ([]Category, error)
	ListByIDs(ctx context.Context, ids []int64, f ListFilter) ([]Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	// InTx runs fn against a store bound to one transaction.
	InTx(ctx context.Context, fn func(Store) error) error
}
