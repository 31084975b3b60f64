package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaspistat/catalog-service/internal/apperr"
)

func ptr(v float64) *float64 { return &v }

func TestValidateNumberRange(t *testing.T) {
	tests := []struct {
		name    string
		from    *float64
		to      *float64
		integer bool
		want    *Range[float64]
		wantErr bool
	}{
		{name: "both absent", want: nil},
		{name: "from only", from: ptr(5), integer: true, want: &Range[float64]{From: ptr(5)}},
		{name: "to only", to: ptr(7), want: &Range[float64]{To: ptr(7)}},
		{name: "both ends", from: ptr(1), to: ptr(3), integer: true, want: &Range[float64]{From: ptr(1), To: ptr(3)}},
		{name: "equal ends", from: ptr(3), to: ptr(3), want: &Range[float64]{From: ptr(3), To: ptr(3)}},
		{name: "inverted", from: ptr(5), to: ptr(3), integer: true, wantErr: true},
		{name: "negative from", from: ptr(-1), wantErr: true},
		{name: "negative to", to: ptr(-2), wantErr: true},
		{name: "fractional from with integer flag", from: ptr(1.5), integer: true, wantErr: true},
		{name: "fractional from without integer flag", from: ptr(1.5), want: &Range[float64]{From: ptr(1.5)}},
		{name: "fractional to is always rejected", from: ptr(1), to: ptr(4.5), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateNumberRange(tt.from, tt.to, "price", tt.integer)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRange)
				assert.True(t, apperr.Is(err, apperr.KindValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRangeContains(t *testing.T) {
	r := &Range[float64]{From: ptr(2), To: ptr(4)}
	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(4))
	assert.False(t, r.Contains(1.99))
	assert.False(t, r.Contains(5))

	var none *Range[float64]
	assert.True(t, none.Empty())
	assert.True(t, none.Contains(-100))
}

func TestParseSort(t *testing.T) {
	allowed := []string{"unitPrice", "productRating", "revenue"}
	aliases := map[string]string{"price": "unitPrice", "rating": "productRating"}

	s, err := ParseSort("", allowed, aliases)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = ParseSort("price,DESC", allowed, aliases)
	require.NoError(t, err)
	assert.Equal(t, &Sort{Field: "unitPrice", Order: Desc}, s)

	s, err = ParseSort("rating", allowed, aliases)
	require.NoError(t, err)
	assert.Equal(t, &Sort{Field: "productRating", Order: Asc}, s)

	s, err = ParseSort("revenue,sideways", allowed, aliases)
	require.NoError(t, err)
	assert.Equal(t, Asc, s.Order)

	_, err = ParseSort("title,asc", allowed, aliases)
	assert.ErrorIs(t, err, ErrInvalidSortField)
}

func TestParsePeriod(t *testing.T) {
	for raw, want := range map[string]Period{"": PeriodNone, "30": Period30, "60": Period60, "90": Period90} {
		got, err := ParsePeriod(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	for _, raw := range []string{"15", "abc", "-30"} {
		_, err := ParsePeriod(raw)
		assert.True(t, apperr.Is(err, apperr.KindValidation), raw)
	}

	assert.Equal(t, "60", Period60.String())
	assert.Equal(t, "", PeriodNone.String())
}

func TestValidatePage(t *testing.T) {
	p, err := ValidatePage(2, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Offset())

	_, err = ValidatePage(0, 10, 10)
	assert.Error(t, err)

	_, err = ValidatePage(1, 11, 10)
	assert.EqualError(t, err, "Page size is not valid (max: 10)")

	_, err = ValidatePage(1, 0, 10)
	assert.Error(t, err)
}

func TestCheckPageBounds(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		page    int
		wantErr bool
	}{
		{"last page", 25, 3, false},
		{"past last page", 25, 4, true},
		{"first page of empty result", 0, 1, false},
		{"second page of empty result", 0, 2, true},
		{"exact multiple", 20, 2, false},
		{"past exact multiple", 20, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPageBounds(tt.total, Page{Number: tt.page, Size: 10})
			if tt.wantErr {
				assert.True(t, apperr.Is(err, apperr.KindValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewListing(t *testing.T) {
	l := NewListing[int](nil, Page{Number: 1, Size: 5}, 0)
	assert.NotNil(t, l.Items)
	assert.Empty(t, l.Items)
	assert.Equal(t, 5, l.PageSize)
	assert.Equal(t, 1, l.Page)
}
