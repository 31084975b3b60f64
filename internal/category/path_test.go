package category_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/category"
	"github.com/kaspistat/catalog-service/internal/category/categorytest"
)

var (
	phoneNames = category.Levels{"Electronics", "Phones", "Smartphones"}
	phoneURLs  = category.Levels{"", "/c/phones", ""}
)

func TestAddPathIsIdempotent(t *testing.T) {
	store := categorytest.NewMemStore()
	svc := newService(store)
	ctx := context.Background()

	first, err := svc.AddPath(ctx, phoneNames, phoneURLs)
	require.NoError(t, err)
	assert.Len(t, first.IDs(), 3)
	assert.Equal(t, 3, store.Len())

	second, err := svc.AddPath(ctx, phoneNames, phoneURLs)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 3, store.Len(), "no duplicates created")

	leaf, _ := store.Row(first[2])
	assert.Equal(t, 3, leaf.Level)
	assert.Equal(t, first[1], leaf.ParentID)
	assert.True(t, leaf.Active())
}

func TestAddPathMatchesNamesCaseInsensitively(t *testing.T) {
	store := categorytest.NewMemStore()
	svc := newService(store)
	ctx := context.Background()

	first, err := svc.AddPath(ctx, phoneNames, category.Levels{})
	require.NoError(t, err)

	second, err := svc.AddPath(ctx, category.Levels{"ELECTRONICS", "phones", "SmartPhones"}, category.Levels{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAddPathSkipsEmptyLevels(t *testing.T) {
	svc := newService(categorytest.NewMemStore())

	path, err := svc.AddPath(context.Background(), category.Levels{"Books", "", "Fiction"}, category.Levels{})
	require.NoError(t, err)
	assert.NotZero(t, path[0])
	assert.NotZero(t, path[1])
	assert.Zero(t, path[2])
	assert.Equal(t, path[1], path.Deepest())
}

func TestAddPathBackfillsURL(t *testing.T) {
	store := categorytest.NewMemStore()
	svc := newService(store)
	ctx := context.Background()

	path, err := svc.AddPath(ctx, phoneNames, category.Levels{})
	require.NoError(t, err)
	c, _ := store.Row(path[1])
	assert.Empty(t, c.URL)

	_, err = svc.AddPath(ctx, phoneNames, phoneURLs)
	require.NoError(t, err)
	c, _ = store.Row(path[1])
	assert.Equal(t, "/c/phones", c.URL)

	_, err = svc.AddPath(ctx, phoneNames, category.Levels{"", "/other"})
	require.NoError(t, err)
	c, _ = store.Row(path[1])
	assert.Equal(t, "/c/phones", c.URL, "existing url is not overwritten")
}

func TestAddPathConflictRollsBack(t *testing.T) {
	store := categorytest.NewMemStore()
	svc := newService(store)
	ctx := context.Background()

	_, err := svc.AddPath(ctx, category.Levels{"Electronics", "Accessories"}, category.Levels{})
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	// "Accessories" already exists at level 2 under Electronics.
	_, err = svc.AddPath(ctx, category.Levels{"Auto", "Accessories"}, category.Levels{})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, 2, store.Len(), "the Auto root is rolled back")
}

func TestAddPathStoreFailureRollsBack(t *testing.T) {
	store := categorytest.NewMemStore()
	store.FailCreateAt = 3
	svc := newService(store)

	_, err := svc.AddPath(context.Background(), phoneNames, category.Levels{})
	require.ErrorIs(t, err, categorytest.ErrCreate)
	assert.Equal(t, 0, store.Len())
}

func TestCheckPath(t *testing.T) {
	store := categorytest.NewMemStore()
	svc := newService(store)
	ctx := context.Background()

	path, err := svc.AddPath(ctx, phoneNames, phoneURLs)
	require.NoError(t, err)
	ids := path.IDs()

	assert.True(t, svc.CheckPath(ctx, ids))
	assert.True(t, svc.CheckPath(ctx, ids[:2]))
	assert.True(t, svc.CheckPath(ctx, ids[1:]), "a chain need not start at a root")

	assert.False(t, svc.CheckPath(ctx, []int64{ids[1], ids[0], ids[2]}))
	assert.False(t, svc.CheckPath(ctx, []int64{ids[0], ids[2]}))
	assert.False(t, svc.CheckPath(ctx, []int64{ids[2], ids[1], ids[0]}))
	assert.False(t, svc.CheckPath(ctx, []int64{ids[0], 999}))
	assert.False(t, svc.CheckPath(ctx, []int64{ids[0], ids[0]}))
	assert.False(t, svc.CheckPath(ctx, nil))
}

func TestPathJSON(t *testing.T) {
	data, err := json.Marshal(category.Path{3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level1":3,"level2":0}`, string(data))

	data, err = json.Marshal(category.Path{1, 2, 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level1":1,"level2":2,"level3":3}`, string(data))

	var p category.Path
	require.NoError(t, json.Unmarshal([]byte(`{"level1":"7","level2":8,"level4":9,"other":1}`), &p))
	assert.Equal(t, category.Path{7, 8, 0, 9}, p)
	assert.Equal(t, int64(9), p.Deepest())

	assert.Zero(t, category.Path{5}.Deepest(), "level1 alone is not a product category")
}

func TestLevelsJSON(t *testing.T) {
	var l category.Levels
	require.NoError(t, json.Unmarshal([]byte(`{"level1":"A","level3":"C","level2":7}`), &l))
	assert.Equal(t, category.Levels{"A", "", "C"}, l)

	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `{"level1":"A","level3":"C"}`, string(data))
}
