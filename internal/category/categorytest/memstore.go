// Package categorytest provides an in-memory category.Store for tests.
package categorytest

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/kaspistat/catalog-service/internal/category"
)

// MemStore is a concurrency-safe in-memory category.Store. InTx snapshots
// the rows and restores them when fn fails.
type MemStore struct {
	mu     sync.Mutex
	rows   map[int64]category.Category
	nextID int64

	// FailCreateAt makes the n-th Create call (1-based) fail when non-zero.
	FailCreateAt int
	creates      int
	Updates      int
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{rows: map[int64]category.Category{}, nextID: 1}
}

// Seed inserts c with its own id, or the next free id when c.ID is 0.
func (m *MemStore) Seed(c category.Category) category.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.nextID
	}
	if c.ID >= m.nextID {
		m.nextID = c.ID + 1
	}
	m.rows[c.ID] = c
	return c
}

// Row returns the stored row for id.
func (m *MemStore) Row(id int64) (category.Category, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	return c, ok
}

// Len returns the number of stored rows.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *MemStore) Get(_ context.Context, id int64) (*category.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *MemStore) GetActive(ctx context.Context, id int64) (*category.Category, error) {
	c, err := m.Get(ctx, id)
	if err != nil || c == nil || !c.Active() {
		return nil, err
	}
	return c, nil
}

func (m *MemStore) FindByNameLevel(_ context.Context, name string, level int) (*category.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.sortedIDs() {
		c := m.rows[id]
		if c.Level == level && category.SameText(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemStore) Children(_ context.Context, parentID int64, status category.Status) ([]category.Category, error) {
	return m.filter(func(c category.Category) bool { return c.ParentID == parentID && c.Status == status }), nil
}

func (m *MemStore) AllChildren(_ context.Context, parentID int64) ([]category.Category, error) {
	return m.filter(func(c category.Category) bool { return c.ParentID == parentID }), nil
}

func (m *MemStore) ListByIDs(_ context.Context, ids []int64, f category.ListFilter) ([]category.Category, error) {
	return m.filter(func(c category.Category) bool {
		if !slices.Contains(ids, c.ID) {
			return false
		}
		if f.ActiveOnly && !c.Active() {
			return false
		}
		if f.FreeOnly && !c.Free {
			return false
		}
		return true
	}), nil
}

func (m *MemStore) Create(_ context.Context, c *category.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.FailCreateAt != 0 && m.creates == m.FailCreateAt {
		return ErrCreate
	}
	c.ID = m.nextID
	m.nextID++
	m.rows[c.ID] = *c
	return nil
}

func (m *MemStore) Update(_ context.Context, c *category.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Updates++
	m.rows[c.ID] = *c
	return nil
}

func (m *MemStore) InTx(_ context.Context, fn func(category.Store) error) error {
	m.mu.Lock()
	snapshot := maps.Clone(m.rows)
	nextID := m.nextID
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.rows = snapshot
		m.nextID = nextID
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *MemStore) filter(keep func(category.Category) bool) []category.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []category.Category{}
	for _, id := range m.sortedIDs() {
		if c := m.rows[id]; keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (m *MemStore) sortedIDs() []int64 {
	return slices.Sorted(maps.Keys(m.rows))
}

// ErrCreate is returned by the Create call selected with FailCreateAt.
var ErrCreate = errors.New("memstore: create failed")
