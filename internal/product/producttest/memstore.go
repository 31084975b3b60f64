// Package producttest provides an in-memory product.Store for tests.
package producttest

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/kaspistat/catalog-service/internal/filter"
	"github.com/kaspistat/catalog-service/internal/product"
)

// MemStore is a concurrency-safe in-memory product.Store.
type MemStore struct {
	mu       sync.Mutex
	products map[int64]product.Product
	history  []product.History
	sellers  map[int64]product.Seller
	links    []product.SellerLink
	nextID   int64

	// LinkInserts and LinkDeletes count InsertSellerLinks and
	// DeleteSellerLinks calls.
	LinkInserts int
	LinkDeletes int
	// SellerWrites counts seller creates and updates.
	SellerWrites int
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		products: map[int64]product.Product{},
		sellers:  map[int64]product.Seller{},
		nextID:   1,
	}
}

func (m *MemStore) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// SeedProduct stores p, assigning an id when p.ID is 0.
func (m *MemStore) SeedProduct(p product.Product) product.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = m.id()
	} else if p.ID >= m.nextID {
		m.nextID = p.ID + 1
	}
	m.products[p.ID] = p
	return p
}

// SeedHistory appends h as is, assigning an id when h.ID is 0.
func (m *MemStore) SeedHistory(h product.History) product.History {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.ID == 0 {
		h.ID = m.id()
	}
	m.history = append(m.history, h)
	return h
}

// Product returns the stored product.
func (m *MemStore) Product(id int64) (product.Product, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	return p, ok
}

// History returns every history row of productID in id order.
func (m *MemStore) History(productID int64) []product.History {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []product.History
	for _, h := range m.history {
		if h.ProductID == productID {
			out = append(out, h)
		}
	}
	return out
}

// Sellers returns every seller in id order.
func (m *MemStore) Sellers() []product.Seller {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []product.Seller{}
	for _, id := range slices.Sorted(maps.Keys(m.sellers)) {
		out = append(out, m.sellers[id])
	}
	return out
}

// LinkedSellers returns the seller ids linked to productID, sorted.
func (m *MemStore) LinkedSellers(productID int64) []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []int64{}
	for _, l := range m.links {
		if l.ProductID == productID {
			ids = append(ids, l.SellerID)
		}
	}
	slices.Sort(ids)
	return ids
}

func (m *MemStore) Get(_ context.Context, id int64) (*product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MemStore) find(match func(product.Product) bool) *product.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range slices.Sorted(maps.Keys(m.products)) {
		if p := m.products[id]; match(p) {
			return &p
		}
	}
	return nil
}

func (m *MemStore) GetByCode(_ context.Context, code string) (*product.Product, error) {
	return m.find(func(p product.Product) bool { return p.Code == code }), nil
}

func (m *MemStore) GetByURL(_ context.Context, url string) (*product.Product, error) {
	return m.find(func(p product.Product) bool { return p.URL == url }), nil
}

func (m *MemStore) Create(_ context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id()
	m.products[p.ID] = *p
	return nil
}

func (m *MemStore) Update(_ context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *MemStore) ListForCollect(_ context.Context, q product.CollectQuery) ([]product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []product.Product
	for _, p := range m.products {
		if !slices.Contains(q.CategoryIDs, p.CategoryID) {
			continue
		}
		if p.Status != product.StatusOK && p.Attempt >= product.MaxAttempts {
			continue
		}
		if q.Depth > 0 && (p.Position <= 0 || p.Position > int64(q.Depth)) {
			continue
		}
		if q.Checked != (p.LastCheckedAt != nil) {
			continue
		}
		if q.CheckedBefore != nil && !p.LastCheckedAt.Before(*q.CheckedBefore) {
			continue
		}
		out = append(out, p)
	}

	slices.SortFunc(out, func(a, b product.Product) int {
		c := cmp.Compare(a.ID, b.ID)
		if q.Checked {
			c = a.LastCheckedAt.Compare(*b.LastCheckedAt)
		}
		if q.Desc {
			return -c
		}
		return c
	})
	return out, nil
}

func (m *MemStore) matching(f product.ListFilter) []product.Product {
	var out []product.Product
	for _, p := range m.products {
		if p.LastCheckedAt == nil || !slices.Contains(f.CategoryIDs, p.CategoryID) {
			continue
		}
		keep := true
		for _, rf := range f.Ranges {
			r := rf.Range
			if !r.Contains(FieldValue(p, rf.Field)) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, p)
		}
	}
	return out
}

func (m *MemStore) Count(_ context.Context, f product.ListFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matching(f)), nil
}

func (m *MemStore) List(_ context.Context, f product.ListFilter, sort filter.Sort, limit, offset int) ([]product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.matching(f)
	field := product.Field(sort.Field)
	slices.SortFunc(rows, func(a, b product.Product) int {
		c := cmp.Compare(FieldValue(a, field), FieldValue(b, field))
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if sort.Order == filter.Desc {
			return -c
		}
		return c
	})

	if offset >= len(rows) {
		return []product.Product{}, nil
	}
	return rows[offset:min(offset+limit, len(rows))], nil
}

// FieldValue reads a filterable column of p as a float.
func FieldValue(p product.Product, f product.Field) float64 {
	switch f {
	case product.FieldID:
		return float64(p.ID)
	case product.FieldUnitPrice:
		return p.UnitPrice.Decimal.InexactFloat64()
	case product.FieldRevenue:
		return p.Revenue.Decimal.InexactFloat64()
	case product.FieldRatingQuantity:
		return float64(p.RatingQuantity)
	case product.FieldOffersQuantity:
		return float64(p.OffersQuantity)
	case product.FieldProductRating:
		return p.ProductRating
	case product.FieldRatingQuantityChange30:
		return float64(p.RatingQuantityChange.D30)
	case product.FieldRatingQuantityChange60:
		return float64(p.RatingQuantityChange.D60)
	case product.FieldRatingQuantityChange90:
		return float64(p.RatingQuantityChange.D90)
	}
	return 0
}

func (m *MemStore) AddHistory(_ context.Context, h *product.History) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h.ID = m.id()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	m.history = append(m.history, *h)
	return nil
}

func (m *MemStore) LastHistory(_ context.Context, productID int64) (*product.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var last *product.History
	for _, h := range m.history {
		if h.ProductID == productID && (last == nil || h.ID > last.ID) {
			last = &h
		}
	}
	return last, nil
}

func (m *MemStore) OldestHistorySince(_ context.Context, productID int64, since, until time.Time) (*product.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var oldest *product.History
	for _, h := range m.history {
		if h.ProductID != productID || h.CreatedAt.Before(since) || h.CreatedAt.After(until) {
			continue
		}
		if oldest == nil || h.ID < oldest.ID {
			oldest = &h
		}
	}
	return oldest, nil
}

// HistoryBetween returns history rows created in [from, to], newest first.
func (m *MemStore) HistoryBetween(_ context.Context, productID int64, from, to time.Time) ([]product.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []product.History
	for _, h := range m.history {
		if h.ProductID == productID && !h.CreatedAt.Before(from) && !h.CreatedAt.After(to) {
			out = append(out, h)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// LatestHistory returns at most limit rows, newest first.
func (m *MemStore) LatestHistory(_ context.Context, productID int64, limit int) ([]product.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []product.History
	for _, h := range m.history {
		if h.ProductID == productID {
			out = append(out, h)
		}
	}
	sortNewestFirst(out)
	return out[:min(limit, len(out))], nil
}

func sortNewestFirst(rows []product.History) {
	slices.SortFunc(rows, func(a, b product.History) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}

func (m *MemStore) HasHistoryBefore(_ context.Context, productID int64, before time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.ContainsFunc(m.history, func(h product.History) bool {
		return h.ProductID == productID && h.CreatedAt.Before(before)
	}), nil
}

func (m *MemStore) SellersByCodes(_ context.Context, codes []string) ([]product.Seller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []product.Seller{}
	for _, id := range slices.Sorted(maps.Keys(m.sellers)) {
		if s := m.sellers[id]; slices.Contains(codes, s.Code) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemStore) CreateSeller(_ context.Context, s *product.Seller) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.id()
	m.sellers[s.ID] = *s
	m.SellerWrites++
	return nil
}

func (m *MemStore) UpdateSeller(_ context.Context, s *product.Seller) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sellers[s.ID] = *s
	m.SellerWrites++
	return nil
}

func (m *MemStore) SellerLinks(_ context.Context, productID int64) ([]product.SellerLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []product.SellerLink
	for _, l := range m.links {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MemStore) DeleteSellerLinks(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkDeletes++
	m.links = slices.DeleteFunc(m.links, func(l product.SellerLink) bool { return slices.Contains(ids, l.ID) })
	return nil
}

func (m *MemStore) InsertSellerLinks(_ context.Context, productID int64, sellerIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkInserts++
	for _, sid := range sellerIDs {
		exists := slices.ContainsFunc(m.links, func(l product.SellerLink) bool {
			return l.ProductID == productID && l.SellerID == sid
		})
		if !exists {
			m.links = append(m.links, product.SellerLink{ID: m.id(), ProductID: productID, SellerID: sid})
		}
	}
	return nil
}

func (m *MemStore) InTx(_ context.Context, fn func(product.Store) error) error {
	m.mu.Lock()
	products := maps.Clone(m.products)
	history := slices.Clone(m.history)
	sellers := maps.Clone(m.sellers)
	links := slices.Clone(m.links)
	nextID := m.nextID
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.products, m.history, m.sellers, m.links, m.nextID = products, history, sellers, links, nextID
		m.mu.Unlock()
		return err
	}
	return nil
}
