package product_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/category"
	"github.com/kaspistat/catalog-service/internal/product"
)

func TestNumberDecoding(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		present bool
		value   float64
	}{
		{name: "number", raw: `12`, present: true, value: 12},
		{name: "numeric string", raw: `"7.5"`, present: true, value: 7.5},
		{name: "padded string", raw: `" 3 "`, present: true, value: 3},
		{name: "null", raw: `null`},
		{name: "empty string", raw: `""`},
		{name: "text", raw: `"abc"`},
		{name: "boolean", raw: `true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n product.Number
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &n))
			assert.Equal(t, tt.present, n.Present())
			v, _ := n.Float()
			assert.Equal(t, tt.value, v)
		})
	}
}

func TestNumberDecimalIsExact(t *testing.T) {
	var n product.Number
	require.NoError(t, json.Unmarshal([]byte(`"19999.99"`), &n))
	assert.Equal(t, "19999.99", n.Decimal().Decimal.String())

	i, ok := n.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(19999), i)

	assert.False(t, product.Number{}.Decimal().Valid)
}

func TestTextAcceptsNumbers(t *testing.T) {
	var req struct {
		A product.Text `json:"a"`
		B product.Text `json:"b"`
		C product.Text `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"abc","b":104392001,"c":{"x":1}}`), &req))
	assert.Equal(t, product.Text("abc"), req.A)
	assert.Equal(t, product.Text("104392001"), req.B)
	assert.Empty(t, req.C)
}

func TestFlag(t *testing.T) {
	for raw, want := range map[string]bool{
		`true`: true, `"true"`: true, `1`: true, `"1"`: true,
		`false`: false, `0`: false, `"yes"`: false, `2`: false, `null`: false,
	} {
		var f product.Flag
		require.NoError(t, json.Unmarshal([]byte(raw), &f))
		assert.Equal(t, want, bool(f), raw)
	}
}

func TestFieldErrors(t *testing.T) {
	var e product.FieldErrors
	require.NoError(t, json.Unmarshal([]byte(`{"sellers":"timeout","details":"","reviews":0,"page":404}`), &e))

	assert.True(t, e.Any())
	assert.Equal(t, "timeout;;0;404", e.Message())
	assert.False(t, e.Result(product.GroupSellers).OK())
	assert.Equal(t, "timeout", e.Result(product.GroupSellers).Err)
	assert.True(t, e.Result(product.GroupDetails).OK(), "empty message does not fail the group")
	assert.True(t, e.Result(product.GroupReviews).OK(), "zero does not fail the group")
	assert.True(t, e.Result(product.GroupSpecification).OK())

	var none product.FieldErrors
	require.NoError(t, json.Unmarshal([]byte(`null`), &none))
	assert.False(t, none.Any())

	assert.Error(t, json.Unmarshal([]byte(`["x"]`), &none))
}

func TestParseSave(t *testing.T) {
	body := `{
		"id": "12", "code": 100200, "parsingId": 3, "url": "https://kaspi.kz/shop/p/phone-100200/",
		"unitPrice": "1500.50", "rating": 4.5, "ratingQuantity": "20", "offersQuantity": 2,
		"sellers": [{"name": "Shop", "price": "1500", "merchantId": 777, "url": "/m/777"}],
		"galleryImages": [{"large": "l.jpg", "medium": "m.jpg", "small": "s.jpg"}],
		"promoConditions": {"installment": true},
		"isNotFound": "0",
		"errors": {"description": "missing"}
	}`
	var req product.SaveRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	in := product.ParseSave(req)

	assert.Equal(t, int64(12), in.ID)
	assert.Equal(t, "100200", in.Code)
	assert.Equal(t, int64(3), in.ParsingID)
	assert.True(t, in.Valid())
	assert.True(t, decimal.RequireFromString("1500.50").Equal(in.UnitPrice.Decimal))
	assert.False(t, in.CreditMonthlyPrice.Valid)
	assert.Equal(t, 4.5, *in.Rating)
	assert.Equal(t, int64(20), *in.RatingQuantity)
	assert.Nil(t, in.ReviewsQuantity)
	require.Len(t, in.Sellers, 1)
	assert.Equal(t, "777", in.Sellers[0].Code)
	assert.Nil(t, in.Specification)
	assert.NotNil(t, in.PromoConditions)
	assert.False(t, in.NotFound)
	assert.False(t, in.Result(product.GroupDescription).OK())
}

func TestParseSaveDropsFalsyPromo(t *testing.T) {
	var req product.SaveRequest
	require.NoError(t, json.Unmarshal([]byte(`{"code":"1","url":"u","promoConditions":false}`), &req))
	assert.Nil(t, product.ParseSave(req).PromoConditions)
}

func TestAddInput(t *testing.T) {
	var req product.AddRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"code": 55, "title": "Phone", "url": "https://kaspi.kz/shop/p/phone-55/",
		"categories": {"level1": 1, "level2": "2", "level3": 3},
		"position": "4", "collectingId": 9
	}`), &req))
	in := product.ParseAdd(req)

	assert.Equal(t, "55", in.Code)
	assert.Equal(t, int64(3), in.CategoryID())
	assert.Equal(t, int64(4), in.Position)
	assert.Equal(t, int64(9), in.CollectingID)
	assert.True(t, in.Valid())

	in.Categories = category.Path{1}
	assert.False(t, in.Valid(), "a root-only path has no product category")

	in = product.AddInput{URL: "u", Title: "t", Categories: category.Path{1, 2}}
	assert.True(t, in.Valid(), "url alone identifies a product")
	in.URL = ""
	assert.False(t, in.Valid())
}

func TestDetailedInputSetters(t *testing.T) {
	in := product.ParseDetailed(product.DetailedRequest{
		Code:         "9",
		Title:        "Book",
		URL:          "https://kaspi.kz/shop/p/book-9/",
		CategoryName: category.Levels{"Books", "Fiction"},
	})
	require.True(t, in.Valid())

	require.NoError(t, in.SetCategories(category.Path{1, 2}))
	err := in.SetCategories(category.Path{3, 4})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, category.Path{1, 2}, in.AddInput().Categories)

	require.NoError(t, in.SetID(10))
	assert.True(t, apperr.Is(in.SetID(11), apperr.KindConflict))
	assert.Equal(t, int64(10), in.ID)

	in.CategoryNames = category.Levels{}
	assert.False(t, in.Valid())
}

func TestParseMarketDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "2023-04-15", want: "2023-04-15"},
		{in: "15.04.2023", want: "2023-04-15"},
		{in: "15/04/2023", want: "2023-04-15"},
		{in: "2023_04_15", want: "2023-04-15"},
		{in: " on sale since 01.12.2019 ", want: "2019-12-01"},
		{in: "2023-02-30", want: ""},
		{in: "04/15/2023", want: ""},
		{in: "soon", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, product.FormatDate(product.ParseMarketDate(tt.in)))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, 5, 20, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 19, product.DaysBetween(start, end))
	assert.Equal(t, 0, product.DaysBetween(end, end))
}
