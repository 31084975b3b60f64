package category

import (
	"github.com/kaspistat/catalog-service/internal/filter"
)

// Node is the detailed tree projection of a category.
type Node struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Level    int     `json:"level"`
	ParentID int64   `json:"parentId"`
	URL      string  `json:"url"`
	Children []*Node `json:"children"`
}

// SimpleNode is the compact tree projection served to site clients.
type SimpleNode struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Children []*SimpleNode `json:"children"`
}

func newNode(c Category) *Node {
	return &Node{
		ID:       c.ID,
		Name:     c.Name,
		Level:    c.Level,
		ParentID: c.ParentID,
		URL:      c.URL,
		Children: []*Node{},
	}
}

// Simple converts the subtree to its compact form.
func (n *Node) Simple() *SimpleNode {
	out := &SimpleNode{ID: n.ID, Name: n.Name, Children: make([]*SimpleNode, 0, len(n.Children))}
	for _, child := range n.Children {
		out.Children = append(out.Children, child.Simple())
	}
	return out
}

// LeafIDs returns the ids of every node without children, depth first.
// A childless node is its own leaf.
func (n *Node) LeafIDs() []int64 {
	if len(n.Children) == 0 {
		return []int64{n.ID}
	}
	var ids []int64
	for _, child := range n.Children {
		ids = append(ids, child.LeafIDs()...)
	}
	return ids
}

// Arena holds fetched category rows keyed by id with a parent→children
// index. Trees are assembled from it on demand so that no row holds live
// pointers to its children while loading.
type Arena struct {
	rows     map[int64]Category
	children map[int64][]int64
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{rows: map[int64]Category{}, children: map[int64][]int64{}}
}

// Add inserts c. It reports false when c.ID is already present, which
// signals a cycle or a duplicate in the persisted parent pointers.
func (a *Arena) Add(c Category) bool {
	if _, ok := a.rows[c.ID]; ok {
		return false
	}
	a.rows[c.ID] = c
	a.children[c.ParentID] = append(a.children[c.ParentID], c.ID)
	return true
}

// Len returns the number of rows in the arena.
func (a *Arena) Len() int { return len(a.rows) }

// Build assembles the subtree rooted at rootID. It returns nil when the
// root is not in the arena.
func (a *Arena) Build(rootID int64) *Node {
	root, ok := a.rows[rootID]
	if !ok {
		return nil
	}
	visited := map[int64]bool{}
	return a.build(root, visited)
}

func (a *Arena) build(c Category, visited map[int64]bool) *Node {
	visited[c.ID] = true
	node := newNode(c)
	for _, id := range a.children[c.ID] {
		if visited[id] {
			continue
		}
		node.Children = append(node.Children, a.build(a.rows[id], visited))
	}
	return node
}

// DetailsRow is one child category projected onto a single period.
type DetailsRow struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Products       float64 `json:"products"`
	Brands         float64 `json:"brands"`
	Offers         float64 `json:"offers"`
	AvgPrice       float64 `json:"avgPrice"`
	Sales          float64 `json:"sales"`
	Revenue        float64 `json:"revenue"`
	SalesToOffer   float64 `json:"salesToOffer"`
	SalesToProduct float64 `json:"salesToProduct"`
}

func toDetails(c Category, p filter.Period) DetailsRow {
	m := c.Metrics
	return DetailsRow{
		ID:             c.ID,
		Name:           c.Name,
		Products:       m.Products.At(p),
		Brands:         m.Brands.At(p),
		Offers:         m.Offers.At(p),
		AvgPrice:       m.AvgPrice.At(p),
		Sales:          m.Sales.At(p),
		Revenue:        m.Revenue.At(p),
		SalesToOffer:   m.SalesToOffer.At(p),
		SalesToProduct: m.SalesToProduct.At(p),
	}
}
