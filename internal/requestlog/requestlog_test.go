package requestlog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kaspistat/catalog-service/internal/requestlog"
	"github.com/kaspistat/catalog-service/internal/session"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) InsertRequest(ctx context.Context, e *requestlog.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockStore) DeleteRequestsBefore(ctx context.Context, t time.Time) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func TestNewEntry(t *testing.T) {
	sess := session.Session{UserID: 1, SessionID: 77}

	tests := []struct {
		name  string
		query string
		fail  string
		want  requestlog.Entry
	}{
		{
			name:  "code",
			query: "100500",
			want:  requestlog.Entry{Code: "100500", SessionID: 77, Status: requestlog.StatusOK},
		},
		{
			name:  "url",
			query: "https://kaspi.kz/shop/p/apple-iphone-15-100500/?c=750000000",
			want: requestlog.Entry{
				Code: "100500", URL: "https://kaspi.kz/shop/p/apple-iphone-15-100500/?c=750000000",
				SessionID: 77, Status: requestlog.StatusOK,
			},
		},
		{
			name:  "failed lookup of foreign url",
			query: "https://example.com/item",
			fail:  "Product url is not valid",
			want: requestlog.Entry{
				URL: "https://example.com/item", SessionID: 77,
				Status: requestlog.StatusFailed, ErrorDescription: "Product url is not valid",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, requestlog.NewEntry(sess, tt.query, tt.fail))
		})
	}
}

func TestLog(t *testing.T) {
	store := new(mockStore)
	store.On("InsertRequest", mock.Anything, mock.MatchedBy(func(e *requestlog.Entry) bool {
		return e.Code == "42" && e.Status == requestlog.StatusFailed
	})).Return(nil).Once()

	svc := requestlog.NewService(store, zerolog.Nop(), nil)
	require.NoError(t, svc.Log(context.Background(), session.Session{}, "42", "Period is not defined"))
	store.AssertExpectations(t)
}

func TestPurge(t *testing.T) {
	now := time.Date(2024, 6, 10, 3, 0, 0, 0, time.UTC)
	store := new(mockStore)
	store.On("DeleteRequestsBefore", mock.Anything, now.Add(-30*24*time.Hour)).Return(int64(12), nil).Once()
	store.On("DeleteRequestsBefore", mock.Anything, now.Add(-time.Hour)).Return(int64(0), errors.New("timeout"))

	svc := requestlog.NewService(store, zerolog.Nop(), nil)
	n, err := svc.Purge(context.Background(), now, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	_, err = svc.Purge(context.Background(), now, time.Hour)
	assert.Error(t, err)
}
