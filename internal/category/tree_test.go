package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaspistat/catalog-service/internal/category"
)

func TestArenaBuild(t *testing.T) {
	a := category.NewArena()
	require.True(t, a.Add(category.Category{ID: 1, Name: "root", Level: 1}))
	require.True(t, a.Add(category.Category{ID: 2, ParentID: 1, Name: "a", Level: 2}))
	require.True(t, a.Add(category.Category{ID: 3, ParentID: 1, Name: "b", Level: 2}))
	require.True(t, a.Add(category.Category{ID: 4, ParentID: 3, Name: "c", Level: 3}))
	assert.False(t, a.Add(category.Category{ID: 2, ParentID: 4}), "duplicate ids are rejected")

	root := a.Build(1)
	require.NotNil(t, root)
	assert.Equal(t, []int64{2, 4}, root.LeafIDs())

	simple := root.Simple()
	assert.Equal(t, "root", simple.Name)
	require.Len(t, simple.Children, 2)
	assert.Equal(t, int64(4), simple.Children[1].Children[0].ID)

	assert.Nil(t, a.Build(42))
}

func TestArenaBuildStopsOnCycle(t *testing.T) {
	a := category.NewArena()
	a.Add(category.Category{ID: 1, ParentID: 2})
	a.Add(category.Category{ID: 2, ParentID: 1})

	root := a.Build(1)
	require.NotNil(t, root)
	require.Len(t, root.Children, 1)
	assert.Empty(t, root.Children[0].Children)
}

func TestSameText(t *testing.T) {
	assert.True(t, category.SameText("/Shop/C/Phones", "/shop/c/PHONES"))
	assert.True(t, category.SameText("Смартфоны", "СМАРТФОНЫ"))
	assert.False(t, category.SameText("/phones?page=1", "/phones"))
}
