// Package product is the product aggregation engine: base upserts from the
// category collectors, detail saves with history and derived metrics, seller
// reconciliation and the client-facing listings.
package product

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kaspistat/catalog-service/internal/category"
	"github.com/kaspistat/catalog-service/internal/filter"
)

// Product status values.
const (
	StatusFailed = 0
	StatusOK     = 1
)

// MaxAttempts is the number of failed checks after which a failed product
// drops out of the collector listing.
const MaxAttempts = 4

// Image is one gallery entry in three sizes.
type Image struct {
	Large  string `json:"large"`
	Medium string `json:"medium"`
	Small  string `json:"small"`
}

// Spec is one specification row.
type Spec struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Windows holds the rating quantity change over the trailing 30/60/90 days.
type Windows struct {
	D30 int64 `json:"ratingQuantityChange30"`
	D60 int64 `json:"ratingQuantityChange60"`
	D90 int64 `json:"ratingQuantityChange90"`
}

// At returns the value for p, or 0 for PeriodNone.
func (w Windows) At(p filter.Period) int64 {
	switch p {
	case filter.Period30:
		return w.D30
	case filter.Period60:
		return w.D60
	case filter.Period90:
		return w.D90
	}
	return 0
}

func (w *Windows) set(p filter.Period, v int64) {
	switch p {
	case filter.Period30:
		w.D30 = v
	case filter.Period60:
		w.D60 = v
	case filter.Period90:
		w.D90 = v
	}
}

// Product is a marketplace product row.
type Product struct {
	ID           int64
	Code         string
	Title        string
	URL          string
	CategoryID   int64
	Categories   category.Path
	Position     int64
	CollectingID int64
	SessionID    int64

	Status          int
	Attempt         int
	FailDate        *time.Time
	FailDescription string

	LastSeeAt           *time.Time
	LastCheckedAt       *time.Time
	OffersLastCheckedAt *time.Time

	UnitPrice          decimal.NullDecimal
	CreditMonthlyPrice decimal.NullDecimal
	ProductRating      float64
	ReviewsQuantity    int64
	RatingQuantity     int64
	OffersQuantity     int64

	Specification   []Spec
	GalleryImages   []Image
	Description     string
	Brand           string
	Weight          string
	KaspiCreatedAt  *time.Time
	PromoConditions json.RawMessage

	Revenue              decimal.NullDecimal
	RatingQuantityChange Windows

	// Free is resolved from the product's category on lookup, not stored.
	Free bool
}

// History is an immutable snapshot written by every successful detail save.
type History struct {
	ID                   int64
	ProductID            int64
	ParsingID            int64
	SessionID            int64
	CreatedAt            time.Time
	UnitPrice            decimal.NullDecimal
	CreditMonthlyPrice   decimal.NullDecimal
	ProductRating        *float64
	ReviewsQuantity      *int64
	RatingQuantity       *int64
	RatingQuantityChange *int64
	OffersQuantity       *int64
	ProductSellers       []SellerPrice
	Revenue              decimal.NullDecimal
	FailDescription      *string
}

// Seller is a marketplace merchant shared across products.
type Seller struct {
	ID        int64
	Code      string
	Name      string
	URL       string
	SessionID int64
}

// SellerLink associates a seller with a product.
type SellerLink struct {
	ID        int64
	ProductID int64
	SellerID  int64
}

// SellerPrice is a seller's offer for a product at save time.
type SellerPrice struct {
	SellerID int64               `json:"sellerId"`
	Price    decimal.NullDecimal `json:"price"`
}

// Field is a product column a listing can filter or sort on.
type Field string

const (
	FieldID                     Field = "id"
	FieldUnitPrice              Field = "unitPrice"
	FieldRevenue                Field = "revenue"
	FieldRatingQuantity         Field = "ratingQuantity"
	FieldOffersQuantity         Field = "offersQuantity"
	FieldProductRating          Field = "productRating"
	FieldRatingQuantityChange   Field = "ratingQuantityChange"
	FieldRatingQuantityChange30 Field = "ratingQuantityChange30"
	FieldRatingQuantityChange60 Field = "ratingQuantityChange60"
	FieldRatingQuantityChange90 Field = "ratingQuantityChange90"
)

// RatingChangeField returns the window column for p.
func RatingChangeField(p filter.Period) Field {
	return Field(string(FieldRatingQuantityChange) + p.String())
}

// RangeFilter restricts a numeric column.
type RangeFilter struct {
	Field Field
	Range filter.Range[float64]
}

// ListFilter is the compound filter of the client listing. Only products
// that were checked at least once are listed.
type ListFilter struct {
	CategoryIDs []int64
	Ranges      []RangeFilter
}

// CollectQuery selects one half of the collector listing.
type CollectQuery struct {
	CategoryIDs []int64
	// Depth keeps only products ranked 1..Depth when positive.
	Depth int
	// Checked selects products with lastCheckedAt set, ordered by it;
	// otherwise never-checked products ordered by id.
	Checked bool
	// CheckedBefore excludes products checked at or after it.
	CheckedBefore *time.Time
	Desc          bool
}

// Products persists product rows. Point lookups return (nil, nil) when
// nothing matches.
type Products interface {
	Get(ctx context.Context, id int64) (*Product, error)
	GetByCode(ctx context.Context, code string) (*Product, error)
	GetByURL(ctx context.Context, url string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	ListForCollect(ctx context.Context, q CollectQuery) ([]Product, error)
	Count(ctx context.Context, f ListFilter) (int, error)
	List(ctx context.Context, f ListFilter, sort filter.Sort, limit, offset int) ([]Product, error)
}

// HistoryStore appends and reads product history rows.
type HistoryStore interface {
	AddHistory(ctx context.Context, h *History) error
	// LastHistory returns the row with the highest id.
	LastHistory(ctx context.Context, productID int64) (*History, error)
	// OldestHistorySince returns the lowest-id row created in [since, until].
	OldestHistorySince(ctx context.Context, productID int64, since, until time.Time) (*History, error)
	HasHistoryBefore(ctx context.Context, productID int64, before time.Time) (bool, error)
}

// SellerStore persists sellers and their product links.
type SellerStore interface {
	SellersByCodes(ctx context.Context, codes []string) ([]Seller, error)
	CreateSeller(ctx context.Context, s *Seller) error
	UpdateSeller(ctx context.Context, s *Seller) error
	SellerLinks(ctx context.Context, productID int64) ([]SellerLink, error)
	DeleteSellerLinks(ctx context.Context, ids []int64) error
	// InsertSellerLinks ignores links that already exist.
	InsertSellerLinks(ctx context.Context, productID int64, sellerIDs []int64) error
}

// Store is the persistence the engine needs.
type Store interface {
	Products
	HistoryStore
	SellerStore
	InTx(ctx context.Context, fn func(Store) error) error
}

// Categories is the part of the category engine products depend on.
type Categories interface {
	AddPath(ctx context.Context, names, urls category.Levels) (category.Path, error)
	FetchLeafIDs(ctx context.Context, categoryID int64) ([]int64, error)
	FetchByIDs(ctx context.Context, ids []int64, freeOnly bool) ([]category.Category, error)
	FetchActiveByIDs(ctx context.Context, ids []int64) ([]category.Category, error)
}
