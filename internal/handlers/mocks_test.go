package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kaspistat/catalog-service/internal/category"
	"github.com/kaspistat/catalog-service/internal/filter"
	"github.com/kaspistat/catalog-service/internal/product"
	"github.com/kaspistat/catalog-service/internal/session"
	"github.com/kaspistat/catalog-service/internal/stat"
	"github.com/kaspistat/catalog-service/internal/subscription"
	"github.com/kaspistat/catalog-service/internal/tariff"
)

type categoriesMock struct{ mock.Mock }

func (m *categoriesMock) FetchAllAsTree(ctx context.Context) ([]*category.SimpleNode, error) {
	args := m.Called(ctx)
	nodes, _ := args.Get(0).([]*category.SimpleNode)
	return nodes, args.Error(1)
}

func (m *categoriesMock) FetchTree(ctx context.Context, parentID int64, depth int) (*category.Node, error) {
	args := m.Called(ctx, parentID, depth)
	node, _ := args.Get(0).(*category.Node)
	return node, args.Error(1)
}

func (m *categoriesMock) FetchLeafIDs(ctx context.Context, categoryID int64) ([]int64, error) {
	args := m.Called(ctx, categoryID)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func (m *categoriesMock) Save(ctx context.Context, parentID int64, items []category.Item) ([]*category.Node, error) {
	args := m.Called(ctx, parentID, items)
	nodes, _ := args.Get(0).([]*category.Node)
	return nodes, args.Error(1)
}

func (m *categoriesMock) Details(ctx context.Context, parentID int64, period filter.Period) ([]category.DetailsRow, error) {
	args := m.Called(ctx, parentID, period)
	rows, _ := args.Get(0).([]category.DetailsRow)
	return rows, args.Error(1)
}

type productsMock struct{ mock.Mock }

func (m *productsMock) Add(ctx context.Context, sess session.Session, in product.AddInput) (*product.Product, error) {
	args := m.Called(ctx, sess, in)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *productsMock) AddAndUpdate(ctx context.Context, sess session.Session, in *product.DetailedInput) (*product.Product, error) {
	args := m.Called(ctx, sess, in)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *productsMock) Save(ctx context.Context, sess session.Session, productID int64, in product.SaveInput) (*product.Product, error) {
	args := m.Called(ctx, sess, productID, in)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *productsMock) FetchAllInCategory(ctx context.Context, categoryIDs []int64, depth int, reverse, excludeCheckedToday bool) ([]product.CategoryProduct, error) {
	args := m.Called(ctx, categoryIDs, depth, reverse, excludeCheckedToday)
	items, _ := args.Get(0).([]product.CategoryProduct)
	return items, args.Error(1)
}

func (m *productsMock) FetchAll(ctx context.Context, categoryIDs []int64, q product.ListQuery) (filter.Listing[product.ListItem], error) {
	args := m.Called(ctx, categoryIDs, q)
	return args.Get(0).(filter.Listing[product.ListItem]), args.Error(1)
}

func (m *productsMock) FetchAllFree(ctx context.Context, categoryIDs []int64, q product.ListQuery) (filter.Listing[product.ListItem], error) {
	args := m.Called(ctx, categoryIDs, q)
	return args.Get(0).(filter.Listing[product.ListItem]), args.Error(1)
}

func (m *productsMock) FetchOne(ctx context.Context, code string) (*product.Product, error) {
	args := m.Called(ctx, code)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

type statsMock struct{ mock.Mock }

func (m *statsMock) Fetch(ctx context.Context, productID int64, period int, types []stat.Type, mode stat.Mode) (stat.Stat, error) {
	args := m.Called(ctx, productID, period, types, mode)
	return args.Get(0).(stat.Stat), args.Error(1)
}

type tariffsMock struct{ mock.Mock }

func (m *tariffsMock) FetchAll(ctx context.Context) ([]tariff.Tariff, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]tariff.Tariff)
	return items, args.Error(1)
}

func (m *tariffsMock) FetchOne(ctx context.Context, id int64) (*tariff.Tariff, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*tariff.Tariff)
	return t, args.Error(1)
}

func (m *tariffsMock) Add(ctx context.Context, t tariff.Tariff) (*tariff.Tariff, error) {
	args := m.Called(ctx, t)
	out, _ := args.Get(0).(*tariff.Tariff)
	return out, args.Error(1)
}

func (m *tariffsMock) Update(ctx context.Context, id int64, p tariff.Patch) (*tariff.Tariff, error) {
	args := m.Called(ctx, id, p)
	out, _ := args.Get(0).(*tariff.Tariff)
	return out, args.Error(1)
}

func (m *tariffsMock) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type subscriptionsMock struct{ mock.Mock }

func (m *subscriptionsMock) GetActive(ctx context.Context, userID int64) (*subscription.Subscription, error) {
	args := m.Called(ctx, userID)
	sub, _ := args.Get(0).(*subscription.Subscription)
	return sub, args.Error(1)
}

func (m *subscriptionsMock) Cancel(ctx context.Context, sub subscription.Subscription) (*subscription.Subscription, error) {
	args := m.Called(ctx, sub)
	out, _ := args.Get(0).(*subscription.Subscription)
	return out, args.Error(1)
}

type requestsMock struct{ mock.Mock }

func (m *requestsMock) Log(ctx context.Context, sess session.Session, query, fail string) error {
	return m.Called(ctx, sess, query, fail).Error(0)
}
