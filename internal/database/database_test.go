package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kaspistat/catalog-service/internal/category"
	"github.com/kaspistat/catalog-service/internal/filter"
	"github.com/kaspistat/catalog-service/internal/product"
	"github.com/kaspistat/catalog-service/internal/requestlog"
	"github.com/kaspistat/catalog-service/internal/session"
	"github.com/kaspistat/catalog-service/internal/subscription"
	"github.com/kaspistat/catalog-service/internal/tariff"
)

// setupTestDB starts a disposable Postgres with the schema applied.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "Failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err, "Failed to create connection pool")

	require.NoError(t, Migrate(ctx, pool))
	// Applying the schema twice must be harmless.
	require.NoError(t, Migrate(ctx, pool))

	t.Cleanup(func() {
		pool.Close()
		testcontainers.TerminateContainer(container)
	})
	return pool
}

func TestStores(t *testing.T) {
	pool := setupTestDB(t)

	t.Run("categories", func(t *testing.T) { testCategoryStore(t, pool) })
	t.Run("products", func(t *testing.T) { testProductStore(t, pool) })
	t.Run("tariffs", func(t *testing.T) { testTariffStore(t, pool) })
	t.Run("subscriptions", func(t *testing.T) { testSubscriptionStore(t, pool) })
	t.Run("requests", func(t *testing.T) { testRequestLogStore(t, pool) })
}

func testCategoryStore(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	store := NewCategoryStore(pool)
	svc := category.NewService(store, zerolog.Nop())

	path, err := svc.AddPath(ctx,
		category.Levels{"Electronics", "Phones", "Smartphones"},
		category.Levels{"/c/electronics", "/c/phones", "/c/smartphones"})
	require.NoError(t, err)
	require.NotZero(t, path.Deepest())

	again, err := svc.AddPath(ctx,
		category.Levels{"ELECTRONICS", "phones", "Smartphones"},
		category.Levels{})
	require.NoError(t, err)
	assert.Equal(t, path, again)

	found, err := store.FindByNameLevel(ctx, "smartphones", 3)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, path[2], found.ID)
	assert.Equal(t, path[1], found.ParentID)

	missing, err := store.Get(ctx, 999999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	found.Free = true
	found.Metrics.Revenue = category.Windowed{D30: 10, D60: 20, D90: 30}
	require.NoError(t, store.Update(ctx, found))

	got, err := store.Get(ctx, found.ID)
	require.NoError(t, err)
	assert.True(t, got.Free)
	assert.Equal(t, 20.0, got.Metrics.Revenue.D60)

	free, err := store.ListByIDs(ctx, path.IDs(), category.ListFilter{FreeOnly: true})
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, found.ID, free[0].ID)

	errBoom := errors.New("boom")
	err = store.InTx(ctx, func(tx category.Store) error {
		require.NoError(t, tx.Create(ctx, &category.Category{Name: "Ghost", Level: 1, Status: category.StatusActive}))
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)
	ghost, err := store.FindByNameLevel(ctx, "Ghost", 1)
	require.NoError(t, err)
	assert.Nil(t, ghost)

	tree, err := svc.FetchTree(ctx, path[0], -1)
	require.NoError(t, err)
	assert.Equal(t, []int64{path[2]}, tree.LeafIDs())
}

func testProductStore(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	store := NewProductStore(pool)
	now := time.Now().UTC().Truncate(time.Second)

	p := &product.Product{
		Code:          "100200300",
		Title:         "Phone",
		URL:           "https://kaspi.kz/shop/p/phone-100200300/",
		CategoryID:    7,
		Categories:    category.Path{1, 7},
		Position:      3,
		Status:        product.StatusOK,
		LastCheckedAt: &now,
		UnitPrice:     decimal.NewNullDecimal(decimal.NewFromInt(1500)),
		Specification: []product.Spec{{Name: "Color", Value: "black"}},
		RatingQuantityChange: product.Windows{
			D30: 4,
		},
	}
	require.NoError(t, store.Create(ctx, p))
	require.NotZero(t, p.ID)

	got, err := store.GetByCode(ctx, "100200300")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.Categories, got.Categories)
	assert.Equal(t, p.Specification, got.Specification)
	assert.True(t, got.UnitPrice.Decimal.Equal(decimal.NewFromInt(1500)))
	assert.False(t, got.Revenue.Valid)
	assert.Nil(t, got.GalleryImages)

	got.Brand = "Acme"
	require.NoError(t, store.Update(ctx, got))
	byURL, err := store.GetByURL(ctx, p.URL)
	require.NoError(t, err)
	assert.Equal(t, "Acme", byURL.Brand)

	from := 1000.0
	f := product.ListFilter{
		CategoryIDs: []int64{7},
		Ranges:      []product.RangeFilter{{Field: product.FieldUnitPrice, Range: filter.Range[float64]{From: &from}}},
	}
	n, err := store.Count(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	rows, err := store.List(ctx, f, filter.Sort{Field: string(product.FieldRatingQuantityChange30), Order: filter.Desc}, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	collect, err := store.ListForCollect(ctx, product.CollectQuery{CategoryIDs: []int64{7}, Checked: true, Depth: 5})
	require.NoError(t, err)
	assert.Len(t, collect, 1)
	collect, err = store.ListForCollect(ctx, product.CollectQuery{CategoryIDs: []int64{7}, Checked: true, CheckedBefore: &now})
	require.NoError(t, err)
	assert.Empty(t, collect)

	rating := int64(10)
	old := &product.History{ProductID: p.ID, CreatedAt: now.Add(-48 * time.Hour), RatingQuantity: &rating}
	require.NoError(t, store.AddHistory(ctx, old))
	recent := &product.History{
		ProductID:      p.ID,
		CreatedAt:      now,
		ProductSellers: []product.SellerPrice{{SellerID: 1, Price: decimal.NewNullDecimal(decimal.NewFromInt(1490))}},
	}
	require.NoError(t, store.AddHistory(ctx, recent))

	last, err := store.LastHistory(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, recent.ID, last.ID)
	require.Len(t, last.ProductSellers, 1)

	oldest, err := store.OldestHistorySince(ctx, p.ID, now.Add(-72*time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, old.ID, oldest.ID)
	assert.Equal(t, rating, *oldest.RatingQuantity)

	before, err := store.HasHistoryBefore(ctx, p.ID, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.True(t, before)

	between, err := store.HistoryBetween(ctx, p.ID, now.Add(-72*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.Equal(t, recent.ID, between[0].ID)

	latest, err := store.LatestHistory(ctx, p.ID, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, recent.ID, latest[0].ID)

	seller := &product.Seller{Code: "S1", Name: "Shop"}
	require.NoError(t, store.CreateSeller(ctx, seller))
	sellers, err := store.SellersByCodes(ctx, []string{"S1", "S2"})
	require.NoError(t, err)
	require.Len(t, sellers, 1)

	require.NoError(t, store.InsertSellerLinks(ctx, p.ID, []int64{seller.ID}))
	require.NoError(t, store.InsertSellerLinks(ctx, p.ID, []int64{seller.ID}))
	links, err := store.SellerLinks(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)

	require.NoError(t, store.DeleteSellerLinks(ctx, []int64{links[0].ID}))
	links, err = store.SellerLinks(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func testTariffStore(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	store := NewTariffStore(pool)
	svc := tariff.NewService(store)

	created, err := svc.Add(ctx, tariff.Tariff{
		Role:   session.RolePremiumUser,
		Name:   "Premium",
		Price:  decimal.RequireFromString("4990.50"),
		Months: 1,
	})
	require.NoError(t, err)

	all, err := svc.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Price.Equal(decimal.RequireFromString("4990.5")))

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = svc.FetchOne(ctx, created.ID)
	assert.Error(t, err)

	changed, err := store.SetTariffStatus(ctx, 424242, tariff.StatusDeleted)
	require.NoError(t, err)
	assert.False(t, changed)
}

func testSubscriptionStore(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	store := NewSubscriptionStore(pool)

	require.NoError(t, store.SetUserRoles(ctx, 5, []session.Role{session.RoleSiteUser, session.RolePremiumUser}))
	roles, err := store.UserRoles(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []session.Role{session.RoleSiteUser, session.RolePremiumUser}, roles)

	due := time.Now().Add(-time.Hour)
	_, err = pool.Exec(ctx, `
		INSERT INTO subscriptions (external_id, user_id, status, amount, next_transaction_at)
		VALUES ('sc_1', 5, 'Active', 4990, $1), ('sc_2', 5, 'Cancelled', 4990, $1)
	`, due)
	require.NoError(t, err)

	sub, err := store.LatestSubscription(ctx, 5, subscription.LiveStatuses)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "sc_1", sub.ExternalID)

	none, err := store.LatestSubscription(ctx, 6, subscription.LiveStatuses)
	require.NoError(t, err)
	assert.Nil(t, none)

	rows, err := store.DueSubscriptions(ctx, subscription.StatusActive, time.Now())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, store.SetSubscriptionStatus(ctx, rows[0].ID, subscription.StatusCancelled))
	rows, err = store.DueSubscriptions(ctx, subscription.StatusActive, time.Now())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func testRequestLogStore(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	store := NewRequestLogStore(pool)
	now := time.Now()

	require.NoError(t, store.InsertRequest(ctx, &requestlog.Entry{Code: "1", Status: requestlog.StatusOK, CreatedAt: now.AddDate(0, 0, -40)}))
	require.NoError(t, store.InsertRequest(ctx, &requestlog.Entry{Code: "2", Status: requestlog.StatusFailed, CreatedAt: now}))

	removed, err := store.DeleteRequestsBefore(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
