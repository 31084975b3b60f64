package tariff_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/session"
	"github.com/kaspistat/catalog-service/internal/tariff"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListTariffs(ctx context.Context, status tariff.Status) ([]tariff.Tariff, error) {
	args := m.Called(ctx, status)
	rows, _ := args.Get(0).([]tariff.Tariff)
	return rows, args.Error(1)
}

func (m *mockStore) GetTariff(ctx context.Context, id int64) (*tariff.Tariff, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*tariff.Tariff)
	return t, args.Error(1)
}

func (m *mockStore) CreateTariff(ctx context.Context, t *tariff.Tariff) error {
	args := m.Called(ctx, t)
	t.ID = 11
	return args.Error(0)
}

func (m *mockStore) UpdateTariff(ctx context.Context, t *tariff.Tariff) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockStore) SetTariffStatus(ctx context.Context, id int64, status tariff.Status) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

func monthly() tariff.Tariff {
	return tariff.Tariff{
		ID:     3,
		Role:   session.RolePremiumUser,
		Name:   "Premium monthly",
		Price:  decimal.NewFromInt(9900),
		Months: 1,
		Status: tariff.StatusActive,
	}
}

func TestFetchAll(t *testing.T) {
	store := new(mockStore)
	store.On("ListTariffs", mock.Anything, tariff.StatusActive).Return(nil, nil).Once()

	rows, err := tariff.NewService(store).FetchAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	store.AssertExpectations(t)
}

func TestFetchOne(t *testing.T) {
	active := monthly()
	deleted := monthly()
	deleted.ID, deleted.Status = 4, tariff.StatusDeleted

	store := new(mockStore)
	store.On("GetTariff", mock.Anything, int64(3)).Return(&active, nil)
	store.On("GetTariff", mock.Anything, int64(4)).Return(&deleted, nil)
	store.On("GetTariff", mock.Anything, int64(5)).Return(nil, nil)
	store.On("GetTariff", mock.Anything, int64(6)).Return(nil, errors.New("conn reset"))
	svc := tariff.NewService(store)
	ctx := context.Background()

	got, err := svc.FetchOne(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Premium monthly", got.Name)

	for _, id := range []int64{4, 5} {
		_, err = svc.FetchOne(ctx, id)
		assert.True(t, apperr.Is(err, apperr.KindNotFound), "id %d", id)
	}
	_, err = svc.FetchOne(ctx, 6)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestAdd(t *testing.T) {
	store := new(mockStore)
	store.On("CreateTariff", mock.Anything, mock.MatchedBy(func(t *tariff.Tariff) bool {
		return t.Status == tariff.StatusActive && t.Name == "Yearly"
	})).Return(nil).Once()
	svc := tariff.NewService(store)

	got, err := svc.Add(context.Background(), tariff.Tariff{
		Role: session.RolePremiumUser, Name: "  Yearly ", Price: decimal.NewFromInt(99000), Months: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	store.AssertExpectations(t)

	invalid := []tariff.Tariff{
		{Role: "owner", Name: "x", Months: 1},
		{Role: session.RoleSiteUser, Months: 1},
		{Role: session.RoleSiteUser, Name: "x", Price: decimal.NewFromInt(-1), Months: 1},
		{Role: session.RoleSiteUser, Name: "x"},
	}
	for _, in := range invalid {
		_, err := svc.Add(context.Background(), in)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "%+v", in)
	}
}

func TestUpdate(t *testing.T) {
	row := monthly()
	store := new(mockStore)
	store.On("GetTariff", mock.Anything, int64(3)).Return(&row, nil)
	store.On("GetTariff", mock.Anything, int64(9)).Return(nil, nil)
	store.On("UpdateTariff", mock.Anything, mock.Anything).Return(nil)
	svc := tariff.NewService(store)

	name, months, zero := "Premium quarter", 3, decimal.Zero
	got, err := svc.Update(context.Background(), 3, tariff.Patch{Name: &name, Months: &months, Price: &zero})
	require.NoError(t, err)
	assert.Equal(t, "Premium quarter", got.Name)
	assert.Equal(t, 3, got.Months)
	assert.True(t, decimal.NewFromInt(9900).Equal(got.Price), "zero price is ignored")
	assert.Equal(t, session.RolePremiumUser, got.Role)

	_, err = svc.Update(context.Background(), 9, tariff.Patch{Name: &name})
	assert.Equal(t, "Could not find tariff by id 9", apperr.Message(err))
}

func TestDelete(t *testing.T) {
	store := new(mockStore)
	store.On("SetTariffStatus", mock.Anything, int64(3), tariff.StatusDeleted).Return(true, nil)
	store.On("SetTariffStatus", mock.Anything, int64(4), tariff.StatusDeleted).Return(false, nil)
	svc := tariff.NewService(store)

	ok, err := svc.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Delete(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, ok)
}
