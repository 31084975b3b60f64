package category_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/category"
	"github.com/kaspistat/catalog-service/internal/category/categorytest"
	"github.com/kaspistat/catalog-service/internal/filter"
)

// seedTree builds:
//
//	1 Electronics
//	├── 2 Phones (url /phones)
//	│   └── 4 Smartphones
//	│       └── 5 Android
//	├── 3 Laptops (url /laptops)
//	└── 6 Cameras (inactive)
//	10 Home
func seedTree(t *testing.T) *categorytest.MemStore {
	t.Helper()
	store := categorytest.NewMemStore()
	active := category.StatusActive
	store.Seed(category.Category{ID: 1, Name: "Electronics", Level: 1, Status: active, URL: "/electronics"})
	store.Seed(category.Category{ID: 2, ParentID: 1, Name: "Phones", Level: 2, Status: active, URL: "/phones"})
	store.Seed(category.Category{ID: 3, ParentID: 1, Name: "Laptops", Level: 2, Status: active, URL: "/laptops"})
	store.Seed(category.Category{ID: 4, ParentID: 2, Name: "Smartphones", Level: 3, Status: active, URL: "/smartphones"})
	store.Seed(category.Category{ID: 5, ParentID: 4, Name: "Android", Level: 4, Status: active, URL: "/android"})
	store.Seed(category.Category{ID: 6, ParentID: 1, Name: "Cameras", Level: 2, Status: category.StatusInactive, URL: "/cameras"})
	store.Seed(category.Category{ID: 10, Name: "Home", Level: 1, Status: active, URL: "/home"})
	return store
}

func newService(store category.Store) *category.Service {
	return category.NewService(store, zerolog.Nop())
}

func childIDs(n *category.Node) []int64 {
	ids := make([]int64, 0, len(n.Children))
	for _, c := range n.Children {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestFetchTreeDepth(t *testing.T) {
	svc := newService(seedTree(t))
	ctx := context.Background()

	tests := []struct {
		name      string
		depth     int
		wantKids  []int64
		wantGrand int
	}{
		{name: "depth zero loads no children", depth: 0, wantKids: []int64{}},
		{name: "depth one loads direct children", depth: 1, wantKids: []int64{2, 3}, wantGrand: 0},
		{name: "unlimited loads everything", depth: -1, wantKids: []int64{2, 3}, wantGrand: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := svc.FetchTree(ctx, 1, tt.depth)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKids, childIDs(node))
			if len(node.Children) > 0 {
				assert.Len(t, node.Children[0].Children, tt.wantGrand)
			}
		})
	}

	full, err := svc.FetchTree(ctx, 1, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), full.Children[0].Children[0].Children[0].ID)
	assert.Equal(t, 4, full.Children[0].Children[0].Children[0].Level)
}

func TestFetchTreeInactiveIsNotFound(t *testing.T) {
	svc := newService(seedTree(t))

	_, err := svc.FetchTree(context.Background(), 6, -1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.FetchTree(context.Background(), 999, -1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestFetchLeafIDs(t *testing.T) {
	svc := newService(seedTree(t))
	ctx := context.Background()

	ids, err := svc.FetchLeafIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 3}, ids)

	ids, err = svc.FetchLeafIDs(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids)

	_, err = svc.FetchLeafIDs(ctx, 6)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Contains(t, err.Error(), "Could not get category by id 6")
}

func TestFetchAllAsTree(t *testing.T) {
	svc := newService(seedTree(t))

	roots, err := svc.FetchAllAsTree(context.Background())
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "Electronics", roots[0].Name)
	assert.Len(t, roots[0].Children, 2)
	assert.Equal(t, "Home", roots[1].Name)
	assert.NotNil(t, roots[1].Children)
	assert.Empty(t, roots[1].Children)
}

func TestFetchByIDs(t *testing.T) {
	store := seedTree(t)
	c, _ := store.Row(3)
	c.Free = true
	store.Seed(c)
	svc := newService(store)
	ctx := context.Background()

	rows, err := svc.FetchByIDs(ctx, nil, false)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = svc.FetchByIDs(ctx, []int64{2, 3, 6, 3}, false)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = svc.FetchByIDs(ctx, []int64{2, 3}, true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0].ID)

	rows, err = svc.FetchActiveByIDs(ctx, []int64{2, 6})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].ID)
}

func TestSaveEmptyDeactivatesWholeSubtree(t *testing.T) {
	store := seedTree(t)
	svc := newService(store)

	result, err := svc.Save(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Empty(t, result)

	for _, id := range []int64{1, 2, 3, 4, 5, 6} {
		c, ok := store.Row(id)
		require.True(t, ok)
		assert.False(t, c.Active(), "category %d should be inactive", id)
	}
	home, _ := store.Row(10)
	assert.True(t, home.Active())
}

func TestSaveReplacesChildren(t *testing.T) {
	store := seedTree(t)
	svc := newService(store)

	result, err := svc.Save(context.Background(), 1, []category.Item{
		{Name: "Tablets", URL: "/tablets"},
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Tablets", result[0].Name)
	assert.Equal(t, 2, result[0].Level)
	assert.Equal(t, int64(1), result[0].ParentID)

	parent, _ := store.Row(1)
	assert.True(t, parent.Active(), "parent stays active")
	for _, id := range []int64{2, 3, 4, 5} {
		c, _ := store.Row(id)
		assert.False(t, c.Active(), "category %d should be inactive", id)
	}
}

func TestSaveMatchesURLCaseInsensitively(t *testing.T) {
	store := seedTree(t)
	svc := newService(store)

	result, err := svc.Save(context.Background(), 1, []category.Item{
		{Name: "Mobile phones", URL: "/PHONES"},
		{Name: "Cameras & Photo", URL: "/Cameras"},
	})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, int64(2), result[0].ID)
	assert.Equal(t, "Mobile phones", result[0].Name)
	assert.Equal(t, int64(6), result[1].ID, "inactive child is reactivated")

	laptops, _ := store.Row(3)
	assert.False(t, laptops.Active())
	smartphones, _ := store.Row(4)
	assert.True(t, smartphones.Active(), "descendants of matched children are untouched")
	assert.Equal(t, 7, store.Len(), "no categories created")
}

func TestSaveUnknownParent(t *testing.T) {
	svc := newService(seedTree(t))
	_, err := svc.Save(context.Background(), 404, []category.Item{{Name: "x", URL: "/x"}})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSaveOnInactiveParentIsAllowed(t *testing.T) {
	store := seedTree(t)
	svc := newService(store)

	result, err := svc.Save(context.Background(), 6, []category.Item{{Name: "Lenses", URL: "/lenses"}})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 3, result[0].Level)
}

func TestSetStatusToTreeExcludeSelf(t *testing.T) {
	store := seedTree(t)
	svc := newService(store)
	ctx := context.Background()

	root, _ := store.Row(1)
	require.NoError(t, svc.SetStatusToTree(ctx, root, false, true))

	root, _ = store.Row(1)
	assert.True(t, root.Active(), "excluded node keeps its status")
	for _, id := range []int64{2, 3, 4, 5} {
		c, _ := store.Row(id)
		assert.False(t, c.Active())
	}

	root.Status = category.StatusInactive
	store.Seed(root)
	require.NoError(t, svc.SetStatusToTree(ctx, root, true, false))
	for _, id := range []int64{1, 2, 3, 4, 5, 6} {
		c, _ := store.Row(id)
		assert.True(t, c.Active(), "category %d should be reactivated", id)
	}
}

func TestSetStatusToTreeTerminatesOnCycle(t *testing.T) {
	store := categorytest.NewMemStore()
	store.Seed(category.Category{ID: 1, ParentID: 2, Name: "A", Level: 1, Status: category.StatusActive})
	store.Seed(category.Category{ID: 2, ParentID: 1, Name: "B", Level: 2, Status: category.StatusActive})
	svc := newService(store)

	a, _ := store.Row(1)
	require.NoError(t, svc.SetStatusToTree(context.Background(), a, false, false))

	b, _ := store.Row(2)
	assert.False(t, b.Active())
}

func TestDetails(t *testing.T) {
	store := seedTree(t)
	c, _ := store.Row(2)
	c.Metrics.Products = category.Windowed{D30: 10, D60: 20, D90: 30}
	c.Metrics.Revenue = category.Windowed{D30: 1000, D60: 2000, D90: 3000}
	store.Seed(c)
	svc := newService(store)

	rows, err := svc.Details(context.Background(), 1, filter.Period60)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Phones", rows[0].Name)
	assert.Equal(t, float64(20), rows[0].Products)
	assert.Equal(t, float64(2000), rows[0].Revenue)

	roots, err := svc.Details(context.Background(), 0, filter.Period30)
	require.NoError(t, err)
	assert.Len(t, roots, 2)
}
