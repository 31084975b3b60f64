package product_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/category"
	"github.com/kaspistat/catalog-service/internal/product"
)

const phoneURL = "https://kaspi.kz/shop/p/phone-100/"

func seedPhone(f *fixture, ratingQuantity int64) product.Product {
	return f.store.SeedProduct(product.Product{
		Code:           "100",
		URL:            phoneURL,
		Title:          "Phone",
		CategoryID:     2,
		Categories:     category.Path{1, 2},
		RatingQuantity: ratingQuantity,
	})
}

func parseSave(t *testing.T, body string) product.SaveInput {
	t.Helper()
	var req product.SaveRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return product.ParseSave(req)
}

func TestSaveRevenueRecurrence(t *testing.T) {
	f := newFixture(t)
	p := seedPhone(f, 10)
	f.store.SeedHistory(product.History{
		ProductID:      p.ID,
		CreatedAt:      daysAgo(40),
		RatingQuantity: ptr(int64(10)),
		Revenue:        decimal.NewNullDecimal(decimal.NewFromInt(100)),
	})

	saved, err := f.svc.Save(context.Background(), sess, p.ID, product.SaveInput{
		Code:           "100",
		URL:            phoneURL,
		UnitPrice:      decimal.NewNullDecimal(decimal.NewFromInt(2)),
		RatingQuantity: ptr(int64(15)),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(110).Equal(saved.Revenue.Decimal), "got %s", saved.Revenue.Decimal)

	rows := f.store.History(p.ID)
	require.Len(t, rows, 2)
	h := rows[1]
	assert.True(t, decimal.NewFromInt(110).Equal(h.Revenue.Decimal))
	assert.Equal(t, int64(5), *h.RatingQuantityChange)
	assert.Equal(t, int64(42), h.SessionID)
	assert.Nil(t, h.FailDescription)
	assert.Equal(t, now, h.CreatedAt)
}

func TestSaveRevenueBootstrapAndRegression(t *testing.T) {
	f := newFixture(t)
	p := seedPhone(f, 0)
	ctx := context.Background()

	saved, err := f.svc.Save(ctx, sess, p.ID, product.SaveInput{
		Code: "100", URL: phoneURL,
		UnitPrice:      decimal.NewNullDecimal(decimal.NewFromInt(3)),
		RatingQuantity: ptr(int64(10)),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(saved.Revenue.Decimal))

	// A quantity drop reduces revenue; it is not floored.
	saved, err = f.svc.Save(ctx, sess, p.ID, product.SaveInput{
		Code: "100", URL: phoneURL,
		UnitPrice:      decimal.NewNullDecimal(decimal.NewFromInt(3)),
		RatingQuantity: ptr(int64(6)),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(18).Equal(saved.Revenue.Decimal))

	rows := f.store.History(p.ID)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(0), *rows[1].RatingQuantityChange, "rating change is floored at zero")
}

func TestSaveRatingWindows(t *testing.T) {
	f := newFixture(t)
	p := seedPhone(f, 12)
	for _, h := range []struct {
		days int
		qty  int64
	}{{80, 5}, {45, 8}, {10, 12}} {
		f.store.SeedHistory(product.History{ProductID: p.ID, CreatedAt: daysAgo(h.days), RatingQuantity: ptr(h.qty)})
	}

	saved, err := f.svc.Save(context.Background(), sess, p.ID, product.SaveInput{
		Code: "100", URL: phoneURL, RatingQuantity: ptr(int64(20)),
	})
	require.NoError(t, err)
	assert.Equal(t, product.Windows{D30: 8, D60: 12, D90: 15}, saved.RatingQuantityChange)
}

func TestSaveWindowsWithoutRatingUseProductQuantity(t *testing.T) {
	f := newFixture(t)
	p := seedPhone(f, 30)
	f.store.SeedHistory(product.History{ProductID: p.ID, CreatedAt: daysAgo(20), RatingQuantity: ptr(int64(25))})

	saved, err := f.svc.Save(context.Background(), sess, p.ID, product.SaveInput{Code: "100", URL: phoneURL})
	require.NoError(t, err)
	assert.Equal(t, int64(5), saved.RatingQuantityChange.D30)
}

func TestSaveNotFoundMarksFailure(t *testing.T) {
	f := newFixture(t)
	p := seedPhone(f, 10)
	p.Attempt = 2
	f.store.SeedProduct(p)

	saved, err := f.svc.Save(context.Background(), sess, p.ID, parseSave(t, `{
		"code": "100", "url": "`+phoneURL+`", "isNotFound": true,
		"errors": {"page": "404", "details": "missing"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, product.StatusFailed, saved.Status)
	assert.Equal(t, 3, saved.Attempt)
	assert.Equal(t, "404;missing", saved.FailDescription)
	require.NotNil(t, saved.FailDate)
	assert.Nil(t, saved.LastCheckedAt)
	assert.Empty(t, f.store.History(p.ID), "no history for a missing page")
}

func TestSaveResetsFailure(t *testing.T) {
	f := newFixture(t)
	p := seedPhone(f, 10)
	p.Status, p.Attempt, p.FailDescription, p.FailDate = product.StatusFailed, 3, "404", ptr(daysAgo(1))
	f.store.SeedProduct(p)

	saved, err := f.svc.Save(context.Background(), sess, p.ID, product.SaveInput{Code: "100", URL: phoneURL})
	require.NoError(t, err)
	assert.Equal(t, product.StatusOK, saved.Status)
	assert.Zero(t, saved.Attempt)
	assert.Empty(t, saved.FailDescription)
	assert.Nil(t, saved.FailDate)
	assert.Equal(t, now, *saved.LastCheckedAt)
}

func TestSaveSkipsFailedGroups(t *testing.T) {
	f := newFixture(t)
	p := seedPhone(f, 10)
	p.ProductRating = 4.0
	p.Brand = "Acme"
	f.store.SeedProduct(p)

	saved, err := f.svc.Save(context.Background(), sess, p.ID, parseSave(t, `{
		"code": "100", "url": "`+phoneURL+`",
		"rating": 2.5, "ratingQuantity": 50,
		"description": "A phone", "brand": "Other", "weight": "0.2 kg",
		"createdTime": "01.02.2021",
		"specification": [{"name": "Color", "value": "Black"}],
		"galleryImages": [{"large": "l.jpg", "medium": "m.jpg", "small": "s.jpg"}],
		"promoConditions": {"bonus": 5},
		"errors": {"reviews": "timeout", "details": "", "specification": "parse error"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, 4.0, saved.ProductRating, "reviews group failed")
	assert.Equal(t, int64(10), saved.RatingQuantity)
	assert.Equal(t, "A phone", saved.Description)
	assert.Equal(t, "Acme", saved.Brand, "brand is write-once")
	assert.Equal(t, "0.2 kg", saved.Weight)
	assert.Equal(t, "2021-02-01", product.FormatDate(saved.KaspiCreatedAt))
	assert.Len(t, saved.GalleryImages, 1)
	assert.JSONEq(t, `{"bonus": 5}`, string(saved.PromoConditions))
	assert.Nil(t, saved.Specification, "specification group failed")

	rows := f.store.History(p.ID)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].FailDescription)
	assert.Equal(t, "timeout;;parse error", *rows[0].FailDescription)
	assert.Nil(t, rows[0].ProductRating)
	assert.Nil(t, rows[0].RatingQuantity)
}

func TestSaveKeepsCreationDate(t *testing.T) {
	f := newFixture(t)
	p := seedPhone(f, 0)
	created := daysAgo(400)
	p.KaspiCreatedAt = &created
	f.store.SeedProduct(p)

	saved, err := f.svc.Save(context.Background(), sess, p.ID, parseSave(t, `{
		"code": "100", "url": "`+phoneURL+`", "createdTime": "2024-01-01"
	}`))
	require.NoError(t, err)
	assert.Equal(t, created, *saved.KaspiCreatedAt)
}

func TestSaveErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Save(ctx, sess, 1, product.SaveInput{URL: phoneURL})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.Save(ctx, sess, 999, product.SaveInput{Code: "100", URL: phoneURL})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestStrictSave(t *testing.T) {
	f := newFixture(t, product.WithStrictSave(true))
	p := seedPhone(f, 1)

	saved, err := f.svc.Save(context.Background(), sess, p.ID, product.SaveInput{
		Code: "100", URL: phoneURL, RatingQuantity: ptr(int64(4)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), saved.RatingQuantity)
	assert.Len(t, f.store.History(p.ID), 1)
}
