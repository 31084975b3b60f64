package product

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/category"
	"github.com/kaspistat/catalog-service/internal/filter"
	"github.com/kaspistat/catalog-service/internal/telemetry"
)

// CategoryProduct is a product as handed to the collectors.
type CategoryProduct struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	Title           string          `json:"title"`
	URL             string          `json:"url"`
	Checked         bool            `json:"checked"`
	OffersChecked   bool            `json:"offersChecked"`
	PromoConditions json.RawMessage `json:"promoConditions"`
}

// offersFreshDays is how long a seller scrape counts as current.
const offersFreshDays = 30

// FetchAllInCategory lists the products of the given categories for the
// collectors: checked products ordered by their last check, then products
// never checked ordered by id. reverse flips both orders and puts the
// never-checked products first. Products failing their fourth attempt in a
// row are left out.
func (s *Service) FetchAllInCategory(ctx context.Context, categoryIDs []int64, depth int, reverse, excludeCheckedToday bool) ([]CategoryProduct, error) {
	if len(categoryIDs) == 0 {
		return []CategoryProduct{}, nil
	}
	now := s.now()

	checkedQ := CollectQuery{CategoryIDs: categoryIDs, Depth: depth, Checked: true, Desc: reverse}
	if excludeCheckedToday {
		today := startOfDay(now)
		checkedQ.CheckedBefore = &today
	}
	checked, err := s.store.ListForCollect(ctx, checkedQ)
	if err != nil {
		return nil, fmt.Errorf("list checked products: %w", err)
	}
	unchecked, err := s.store.ListForCollect(ctx, CollectQuery{CategoryIDs: categoryIDs, Depth: depth, Desc: reverse})
	if err != nil {
		return nil, fmt.Errorf("list unchecked products: %w", err)
	}

	first, second := checked, unchecked
	if reverse {
		first, second = unchecked, checked
	}
	rows := append(first, second...)
	return lo.Map(rows, func(p Product, _ int) CategoryProduct {
		return CategoryProduct{
			ID:              p.ID,
			Code:            p.Code,
			Title:           p.Title,
			URL:             p.URL,
			Checked:         p.LastCheckedAt != nil && p.PromoConditions != nil,
			OffersChecked:   p.OffersLastCheckedAt != nil && DaysBetween(*p.OffersLastCheckedAt, now) <= offersFreshDays,
			PromoConditions: p.PromoConditions,
		}
	}), nil
}

// ListQuery is a validated client listing request.
type ListQuery struct {
	// Period selects the rating change window that is filtered, sorted
	// and reported.
	Period               filter.Period
	Price                *filter.Range[float64]
	Revenue              *filter.Range[float64]
	RatingQuantity       *filter.Range[float64]
	OffersQuantity       *filter.Range[float64]
	Rating               *filter.Range[float64]
	RatingQuantityChange *filter.Range[float64]
	Page                 filter.Page
}

// SortFields are the client-facing sort fields and their aliases.
var (
	SortFields = []string{
		string(FieldUnitPrice),
		string(FieldRatingQuantity),
		string(FieldOffersQuantity),
		string(FieldProductRating),
		string(FieldRatingQuantityChange),
		string(FieldRevenue),
	}
	SortAliases = map[string]string{
		"price":  string(FieldUnitPrice),
		"rating": string(FieldProductRating),
	}
)

// ParseListSort parses the listing's sort parameter. Sorting by rating
// change needs a period and resolves to that window's column.
func ParseListSort(raw string, period filter.Period) (*filter.Sort, error) {
	sort, err := filter.ParseSort(raw, SortFields, SortAliases)
	if err != nil || sort == nil {
		return sort, err
	}
	if sort.Field == string(FieldRatingQuantityChange) {
		if !period.Valid() {
			return nil, apperr.Validation("RatingQuantityChange param is not defined for sorting")
		}
		sort.Field = string(RatingChangeField(period))
	}
	return sort, nil
}

// Validate checks cross-field constraints of the query.
func (q ListQuery) Validate() error {
	if q.RatingQuantityChange != nil && !q.Period.Valid() {
		return apperr.Validation("RatingQuantityChange param is not defined for filter ratingQuantityChange")
	}
	return nil
}

func (q ListQuery) filter(categoryIDs []int64) ListFilter {
	f := ListFilter{CategoryIDs: categoryIDs}
	add := func(field Field, r *filter.Range[float64]) {
		if r != nil && !r.Empty() {
			f.Ranges = append(f.Ranges, RangeFilter{Field: field, Range: *r})
		}
	}
	add(FieldUnitPrice, q.Price)
	add(FieldRevenue, q.Revenue)
	add(FieldRatingQuantity, q.RatingQuantity)
	add(FieldOffersQuantity, q.OffersQuantity)
	add(FieldProductRating, q.Rating)
	if q.Period.Valid() {
		add(RatingChangeField(q.Period), q.RatingQuantityChange)
	}
	return f
}

// ListItem is one product row of the client listing.
type ListItem struct {
	Category             string              `json:"category"`
	Code                 string              `json:"code"`
	Image                string              `json:"image"`
	ParentCategory       string              `json:"parentCategory"`
	Rating               float64             `json:"rating"`
	RatingQuantity       int64               `json:"ratingQuantity"`
	ReviewsQuantity      int64               `json:"reviewsQuantity"`
	OffersQuantity       int64               `json:"offersQuantity"`
	Title                string              `json:"title"`
	UnitPrice            decimal.Decimal     `json:"unitPrice"`
	URL                  string              `json:"url"`
	RatingQuantityChange int64               `json:"ratingQuantityChange"`
	Weight               string              `json:"weight"`
	Brand                string              `json:"brand"`
	Revenue              decimal.NullDecimal `json:"revenue"`
	DaysOnKaspi          int                 `json:"daysOnKaspi"`
}

// FetchAll lists products of any of the given categories for premium callers.
func (s *Service) FetchAll(ctx context.Context, categoryIDs []int64, q ListQuery) (filter.Listing[ListItem], error) {
	return s.fetchAll(ctx, categoryIDs, q, false)
}

// FetchAllFree lists products of the given categories, all of which must be
// open to non-premium callers.
func (s *Service) FetchAllFree(ctx context.Context, categoryIDs []int64, q ListQuery) (filter.Listing[ListItem], error) {
	return s.fetchAll(ctx, categoryIDs, q, true)
}

func (s *Service) fetchAll(ctx context.Context, categoryIDs []int64, q ListQuery, freeOnly bool) (filter.Listing[ListItem], error) {
	ctx, span := telemetry.StartSpan(ctx, "product.FetchAll")
	defer span.End()

	var empty filter.Listing[ListItem]
	if err := q.Validate(); err != nil {
		return empty, err
	}

	cats, err := s.categories.FetchByIDs(ctx, categoryIDs, freeOnly)
	if err != nil {
		return empty, err
	}
	if len(cats) == 0 || len(cats) != len(categoryIDs) {
		return empty, apperr.NotFound("Could not define categories by " + formatIDs(categoryIDs))
	}

	var leaves []int64
	for _, c := range cats {
		ids, err := s.categories.FetchLeafIDs(ctx, c.ID)
		if err != nil {
			return empty, err
		}
		leaves = append(leaves, ids...)
	}

	f := q.filter(lo.Uniq(leaves))
	sort := filter.Sort{Field: string(FieldID), Order: filter.Asc}
	if q.Page.Sort != nil {
		sort = *q.Page.Sort
	}

	total, err := s.store.Count(ctx, f)
	if err != nil {
		return empty, fmt.Errorf("count products: %w", err)
	}
	if err := filter.CheckPageBounds(total, q.Page); err != nil {
		return empty, err
	}

	rows, err := s.store.List(ctx, f, sort, q.Page.Limit(), q.Page.Offset())
	if err != nil {
		return empty, fmt.Errorf("list products: %w", err)
	}

	names, err := s.categoryNames(ctx, rows)
	if err != nil {
		return empty, err
	}

	now := s.now()
	items := lo.Map(rows, func(p Product, _ int) ListItem {
		item := ListItem{
			Category:             names[p.CategoryID],
			Code:                 p.Code,
			ParentCategory:       names[p.Categories[0]],
			Rating:               p.ProductRating,
			RatingQuantity:       p.RatingQuantity,
			ReviewsQuantity:      p.ReviewsQuantity,
			OffersQuantity:       p.OffersQuantity,
			Title:                p.Title,
			UnitPrice:            p.UnitPrice.Decimal,
			URL:                  p.URL,
			RatingQuantityChange: p.RatingQuantityChange.At(q.Period),
			Weight:               p.Weight,
			Brand:                p.Brand,
			Revenue:              p.Revenue,
		}
		if len(p.GalleryImages) > 0 {
			item.Image = p.GalleryImages[0].Large
		}
		if p.KaspiCreatedAt != nil {
			item.DaysOnKaspi = DaysBetween(*p.KaspiCreatedAt, now)
		}
		return item
	})
	return filter.NewListing(items, q.Page, total), nil
}

// categoryNames resolves the names of the root and deepest category of
// every row.
func (s *Service) categoryNames(ctx context.Context, rows []Product) (map[int64]string, error) {
	ids := lo.FlatMap(rows, func(p Product, _ int) []int64 {
		return []int64{p.Categories[0], p.Categories.Deepest(), p.CategoryID}
	})
	ids = lo.Filter(lo.Uniq(ids), func(id int64, _ int) bool { return id > 0 })
	cats, err := s.categories.FetchActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(cats, func(c category.Category) (int64, string) { return c.ID, c.Name }), nil
}

func formatIDs(ids []int64) string {
	parts := lo.Map(ids, func(id int64, _ int) string { return fmt.Sprint(id) })
	return "[" + strings.Join(parts, ",") + "]"
}

// FetchOne returns the product with the given code. Only products that were
// checked and have history from before today are served.
func (s *Service) FetchOne(ctx context.Context, code string) (*Product, error) {
	p, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", code, err)
	}
	if p == nil || p.LastCheckedAt == nil {
		return nil, apperr.NotFound(fmt.Sprintf("Product is not found by code %s (1)", code))
	}

	ok, err := s.store.HasHistoryBefore(ctx, p.ID, startOfDay(s.now()))
	if err != nil {
		return nil, fmt.Errorf("history of %s: %w", code, err)
	}
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("Product is not found by code %s (2)", code))
	}

	if p.CategoryID > 0 {
		free, err := s.categories.FetchByIDs(ctx, []int64{p.CategoryID}, true)
		if err != nil {
			return nil, err
		}
		p.Free = len(free) > 0
	}
	return p, nil
}
