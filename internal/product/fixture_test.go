package product_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaspistat/catalog-service/internal/category"
	"github.com/kaspistat/catalog-service/internal/category/categorytest"
	"github.com/kaspistat/catalog-service/internal/product"
	"github.com/kaspistat/catalog-service/internal/product/producttest"
	"github.com/kaspistat/catalog-service/internal/session"
)

var (
	now  = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	sess = session.Session{UserID: 7, SessionID: 42, Roles: []session.Role{session.RoleParser}}
)

type fixture struct {
	store *producttest.MemStore
	cats  *categorytest.MemStore
	svc   *product.Service
}

func newFixture(t *testing.T, opts ...product.Option) *fixture {
	t.Helper()
	cats := categorytest.NewMemStore()
	store := producttest.NewMemStore()
	opts = append([]product.Option{product.WithClock(func() time.Time { return now })}, opts...)
	return &fixture{
		store: store,
		cats:  cats,
		svc:   product.NewService(store, category.NewService(cats, zerolog.Nop()), zerolog.Nop(), opts...),
	}
}

func daysAgo(n int) time.Time { return now.AddDate(0, 0, -n) }

func ptr[T any](v T) *T { return &v }
