// Package handlers is the gin HTTP surface of the catalog service.
package handlers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaspistat/catalog-service/internal/category"
	"github.com/kaspistat/catalog-service/internal/filter"
	"github.com/kaspistat/catalog-service/internal/product"
	"github.com/kaspistat/catalog-service/internal/session"
	"github.com/kaspistat/catalog-service/internal/stat"
	"github.com/kaspistat/catalog-service/internal/subscription"
	"github.com/kaspistat/catalog-service/internal/tariff"
)

// CategoryService is the category engine surface the handlers use.
type CategoryService interface {
	FetchAllAsTree(ctx context.Context) ([]*category.SimpleNode, error)
	FetchTree(ctx context.Context, parentID int64, depth int) (*category.Node, error)
	FetchLeafIDs(ctx context.Context, categoryID int64) ([]int64, error)
	Save(ctx context.Context, parentID int64, items []category.Item) ([]*category.Node, error)
	Details(ctx context.Context, parentID int64, period filter.Period) ([]category.DetailsRow, error)
}

// ProductService is the product engine surface the handlers use.
type ProductService interface {
	Add(ctx context.Context, sess session.Session, in product.AddInput) (*product.Product, error)
	AddAndUpdate(ctx context.Context, sess session.Session, in *product.DetailedInput) (*product.Product, error)
	Save(ctx context.Context, sess session.Session, productID int64, in product.SaveInput) (*product.Product, error)
	FetchAllInCategory(ctx context.Context, categoryIDs []int64, depth int, reverse, excludeCheckedToday bool) ([]product.CategoryProduct, error)
	FetchAll(ctx context.Context, categoryIDs []int64, q product.ListQuery) (filter.Listing[product.ListItem], error)
	FetchAllFree(ctx context.Context, categoryIDs []int64, q product.ListQuery) (filter.Listing[product.ListItem], error)
	FetchOne(ctx context.Context, code string) (*product.Product, error)
}

type StatService interface {
	Fetch(ctx context.Context, productID int64, period int, types []stat.Type, mode stat.Mode) (stat.Stat, error)
}

type TariffService interface {
	FetchAll(ctx context.Context) ([]tariff.Tariff, error)
	FetchOne(ctx context.Context, id int64) (*tariff.Tariff, error)
	Add(ctx context.Context, t tariff.Tariff) (*tariff.Tariff, error)
	Update(ctx context.Context, id int64, p tariff.Patch) (*tariff.Tariff, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type SubscriptionService interface {
	GetActive(ctx context.Context, userID int64) (*subscription.Subscription, error)
	Cancel(ctx context.Context, sub subscription.Subscription) (*subscription.Subscription, error)
}

// RequestLogger audits product-details lookups.
type RequestLogger interface {
	Log(ctx context.Context, sess session.Session, query, fail string) error
}

// Limits are the request bounds enforced by the handlers.
type Limits struct {
	MaxPageSize     int
	DefaultPageSize int
	// MaxBasicPeriod applies to callers without a site or premium role.
	MaxBasicPeriod int
	MaxPeriod      int
}

// DefaultLimits returns the production bounds.
func DefaultLimits() Limits {
	return Limits{MaxPageSize: 10, DefaultPageSize: filter.DefaultPageSize, MaxBasicPeriod: 95, MaxPeriod: 190}
}

// Handler serves every API route.
type Handler struct {
	categories    CategoryService
	products      ProductService
	stats         StatService
	tariffs       TariffService
	subscriptions SubscriptionService
	requests      RequestLogger
	limits        Limits
	logger        zerolog.Logger
	now           func() time.Time
}

// Deps groups the services a Handler is built from.
type Deps struct {
	Categories    CategoryService
	Products      ProductService
	Stats         StatService
	Tariffs       TariffService
	Subscriptions SubscriptionService
	Requests      RequestLogger
}

func New(deps Deps, limits Limits, logger zerolog.Logger) *Handler {
	return &Handler{
		categories:    deps.Categories,
		products:      deps.Products,
		stats:         deps.Stats,
		tariffs:       deps.Tariffs,
		subscriptions: deps.Subscriptions,
		requests:      deps.Requests,
		limits:        limits,
		logger:        logger,
		now:           time.Now,
	}
}
