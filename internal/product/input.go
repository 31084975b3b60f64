package product

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/category"
)

// Number is a JSON value that collectors send either as a number or as a
// numeric string. Null, empty and non-numeric values decode as absent.
type Number struct {
	raw string
	val float64
	ok  bool
}

// NewNumber returns a present Number.
func NewNumber(v float64) Number {
	return Number{raw: strconv.FormatFloat(v, 'f', -1, 64), val: v, ok: true}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	s := string(bytes.TrimSpace(data))
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*n = Number{raw: s, val: v, ok: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.ok {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.val, 'f', -1, 64)), nil
}

func (Number) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "number"},
			{Type: "string", Pattern: `^-?\d+(\.\d+)?$`},
		},
	}
}

// Present reports whether a numeric value was sent.
func (n Number) Present() bool { return n.ok }

// Float returns the value as sent.
func (n Number) Float() (float64, bool) { return n.val, n.ok }

// Int returns the value truncated toward zero.
func (n Number) Int() (int64, bool) {
	if !n.ok {
		return 0, false
	}
	return int64(math.Trunc(n.val)), true
}

// Decimal returns the exact decimal value of the literal.
func (n Number) Decimal() decimal.NullDecimal {
	if !n.ok {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(n.raw)
	if err != nil {
		d = decimal.NewFromFloat(n.val)
	}
	return decimal.NewNullDecimal(d)
}

func (n Number) intPtr() *int64 {
	if v, ok := n.Int(); ok {
		return &v
	}
	return nil
}

func (n Number) floatPtr() *float64 {
	if v, ok := n.Float(); ok {
		return &v
	}
	return nil
}

// Text is a string field that may also arrive as a JSON number, as product
// and merchant codes do. Other JSON types decode as empty.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		*t = Text(x)
	case json.Number:
		*t = Text(x.String())
	default:
		*t = ""
	}
	return nil
}

func (Text) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{{Type: "string"}, {Type: "integer"}},
	}
}

// Flag is a boolean sent as true, "true", 1 or "1". Anything else is false.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", `"true"`, "1", `"1"`:
		*f = true
	default:
		*f = false
	}
	return nil
}

func (Flag) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{{Type: "boolean"}, {Type: "integer"}, {Type: "string"}},
	}
}

// Group is a field group the collector reports scrape failures for.
type Group string

const (
	GroupReviews       Group = "reviews"
	GroupDescription   Group = "description"
	GroupSellers       Group = "sellers"
	GroupDetails       Group = "details"
	GroupSpecification Group = "specification"
)

// FieldError is one entry of the collector's error object.
type FieldError struct {
	Key     string
	Message string
	// failed is false for entries whose value is empty, zero, false or null.
	failed bool
}

// FieldErrors keeps the collector's error object in the order it was sent.
type FieldErrors []FieldError

var errFieldErrorsShape = errors.New("errors must be a JSON object")

func (e *FieldErrors) UnmarshalJSON(data []byte) error {
	*e = nil
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errFieldErrorsShape
	}

	out := FieldErrors{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		out = append(out, newFieldError(key, raw))
	}
	*e = out
	return nil
}

func (FieldErrors) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object"}
}

func newFieldError(key string, raw json.RawMessage) FieldError {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	_ = dec.Decode(&v)

	fe := FieldError{Key: key}
	switch x := v.(type) {
	case nil:
	case string:
		fe.Message, fe.failed = x, x != ""
	case bool:
		fe.Message, fe.failed = strconv.FormatBool(x), x
	case json.Number:
		f, _ := x.Float64()
		fe.Message, fe.failed = x.String(), f != 0
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err == nil {
			fe.Message = buf.String()
		}
		fe.failed = true
	}
	return fe
}

// Any reports whether the collector sent any error entry.
func (e FieldErrors) Any() bool { return len(e) > 0 }

// Message joins every entry's message with ";".
func (e FieldErrors) Message() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, ";")
}

// Result reports the outcome of scraping group g.
func (e FieldErrors) Result(g Group) Result {
	for _, fe := range e {
		if fe.Key == string(g) && fe.failed {
			return Result{Group: g, Err: fe.Message}
		}
	}
	return Result{Group: g}
}

// Result is the scrape outcome of one field group. A group's fields are
// applied only when it is OK.
type Result struct {
	Group Group
	Err   string
}

// OK reports whether the group was scraped without an error.
func (r Result) OK() bool { return r.Err == "" }

// SellerRequest is one seller offer as scraped.
type SellerRequest struct {
	Name       string `json:"name"`
	Price      Number `json:"price"`
	MerchantID Text   `json:"merchantId"`
	URL        string `json:"url"`
}

// AddRequest is the collector payload for a base product upsert.
type AddRequest struct {
	Code         Text          `json:"code,omitempty"`
	Title        string        `json:"title" binding:"required"`
	URL          string        `json:"url" binding:"required"`
	Categories   category.Path `json:"categories"`
	Position     Number        `json:"position"`
	CollectingID Number        `json:"collectingId,omitempty"`
}

// SaveRequest is the collector payload for a product detail save.
type SaveRequest struct {
	ID                 Number          `json:"id"`
	Code               Text            `json:"code"`
	ParsingID          Number          `json:"parsingId"`
	Title              string          `json:"title,omitempty"`
	URL                string          `json:"url"`
	UnitPrice          Number          `json:"unitPrice,omitempty"`
	CreditMonthlyPrice Number          `json:"creditMonthlyPrice,omitempty"`
	Rating             Number          `json:"rating,omitempty"`
	ReviewsQuantity    Number          `json:"reviewsQuantity,omitempty"`
	RatingQuantity     Number          `json:"ratingQuantity,omitempty"`
	OffersQuantity     Number          `json:"offersQuantity,omitempty"`
	Weight             Text            `json:"weight,omitempty"`
	Brand              Text            `json:"brand,omitempty"`
	CreatedTime        Text            `json:"createdTime,omitempty"`
	GalleryImages      []Image         `json:"galleryImages,omitempty"`
	Specification      []Spec          `json:"specification,omitempty"`
	Description        string          `json:"description,omitempty"`
	Sellers            []SellerRequest `json:"sellers,omitempty"`
	Errors             FieldErrors     `json:"errors,omitempty"`
	IsNotFound         Flag            `json:"isNotFound,omitempty"`
	PromoConditions    json.RawMessage `json:"promoConditions,omitempty"`
}

// DetailedRequest is a full product page submitted by a site client or the
// browser extension.
type DetailedRequest struct {
	Code               Text            `json:"code" binding:"required"`
	Title              string          `json:"title" binding:"required"`
	URL                string          `json:"url" binding:"required"`
	CategoryName       category.Levels `json:"categoryName"`
	CategoryURLs       category.Levels `json:"categoryUrls,omitempty"`
	UnitPrice          Number          `json:"unitPrice,omitempty"`
	CreditMonthlyPrice Number          `json:"creditMonthlyPrice,omitempty"`
	ReviewsQuantity    Number          `json:"reviewsQuantity,omitempty"`
	RatingQuantity     Number          `json:"ratingQuantity,omitempty"`
	OffersQuantity     Number          `json:"offersQuantity,omitempty"`
	Rating             Number          `json:"rating,omitempty"`
	Specification      []Spec          `json:"specification,omitempty"`
	GalleryImages      []Image         `json:"galleryImages,omitempty"`
	Sellers            []SellerRequest `json:"sellers,omitempty"`
	Description        string          `json:"description,omitempty"`
}

// AddInput is a validated base upsert.
type AddInput struct {
	Code         string
	URL          string
	Title        string
	Categories   category.Path
	Position     int64
	CollectingID int64
}

// ParseAdd converts a request into an AddInput.
func ParseAdd(r AddRequest) AddInput {
	in := AddInput{
		Code:       string(r.Code),
		URL:        r.URL,
		Title:      r.Title,
		Categories: r.Categories,
	}
	in.Position, _ = r.Position.Int()
	in.CollectingID, _ = r.CollectingID.Int()
	return in
}

// CategoryID is the deepest category of the path below level 1.
func (in AddInput) CategoryID() int64 { return in.Categories.Deepest() }

// Valid reports whether the input can identify and place a product.
func (in AddInput) Valid() bool {
	return (in.URL != "" || in.Code != "") && in.Title != "" && in.CategoryID() > 0
}

// SellerOffer is an incoming seller with its price for the product.
type SellerOffer struct {
	Code  string
	Name  string
	URL   string
	Price decimal.NullDecimal
}

// SaveInput is a validated detail save. Optional fields are nil or invalid
// when the collector did not send them.
type SaveInput struct {
	ID        int64
	Code      string
	ParsingID int64
	Title     string
	URL       string

	UnitPrice          decimal.NullDecimal
	CreditMonthlyPrice decimal.NullDecimal
	Rating             *float64
	ReviewsQuantity    *int64
	RatingQuantity     *int64
	OffersQuantity     *int64

	GalleryImages   []Image
	Specification   []Spec
	Description     string
	Sellers         []SellerOffer
	Brand           string
	Weight          string
	CreatedTime     string
	PromoConditions json.RawMessage

	Errors   FieldErrors
	NotFound bool
}

// ParseSave converts a request into a SaveInput.
func ParseSave(r SaveRequest) SaveInput {
	in := SaveInput{
		Code:               string(r.Code),
		Title:              r.Title,
		URL:                r.URL,
		UnitPrice:          r.UnitPrice.Decimal(),
		CreditMonthlyPrice: r.CreditMonthlyPrice.Decimal(),
		Rating:             r.Rating.floatPtr(),
		ReviewsQuantity:    r.ReviewsQuantity.intPtr(),
		RatingQuantity:     r.RatingQuantity.intPtr(),
		OffersQuantity:     r.OffersQuantity.intPtr(),
		GalleryImages:      r.GalleryImages,
		Specification:      r.Specification,
		Description:        r.Description,
		Sellers:            parseSellers(r.Sellers),
		Brand:              string(r.Brand),
		Weight:             string(r.Weight),
		CreatedTime:        string(r.CreatedTime),
		PromoConditions:    promoOrNil(r.PromoConditions),
		Errors:             r.Errors,
		NotFound:           bool(r.IsNotFound),
	}
	in.ID, _ = r.ID.Int()
	in.ParsingID, _ = r.ParsingID.Int()
	return in
}

func parseSellers(in []SellerRequest) []SellerOffer {
	if in == nil {
		return nil
	}
	out := make([]SellerOffer, len(in))
	for i, s := range in {
		out[i] = SellerOffer{Code: string(s.MerchantID), Name: s.Name, URL: s.URL, Price: s.Price.Decimal()}
	}
	return out
}

// promoOrNil drops falsy promo payloads.
func promoOrNil(raw json.RawMessage) json.RawMessage {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "0", `""`:
		return nil
	}
	return raw
}

// Valid reports whether the save identifies a product.
func (in SaveInput) Valid() bool { return in.Code != "" && in.URL != "" }

// Result reports the scrape outcome of group g.
func (in SaveInput) Result(g Group) Result { return in.Errors.Result(g) }

// DetailedInput is a validated detailed submission. Its product id and
// category path are resolved during AddAndUpdate and may be set only once.
type DetailedInput struct {
	SaveInput
	CategoryNames category.Levels
	CategoryURLs  category.Levels

	categories    category.Path
	categoriesSet bool
}

// ParseDetailed converts a request into a DetailedInput. Detailed pages
// carry no error object, not-found flag, brand, creation date, weight or
// promo conditions.
func ParseDetailed(r DetailedRequest) *DetailedInput {
	return &DetailedInput{
		SaveInput: SaveInput{
			Code:               string(r.Code),
			Title:              r.Title,
			URL:                r.URL,
			UnitPrice:          r.UnitPrice.Decimal(),
			CreditMonthlyPrice: r.CreditMonthlyPrice.Decimal(),
			Rating:             r.Rating.floatPtr(),
			ReviewsQuantity:    r.ReviewsQuantity.intPtr(),
			RatingQuantity:     r.RatingQuantity.intPtr(),
			OffersQuantity:     r.OffersQuantity.intPtr(),
			GalleryImages:      r.GalleryImages,
			Specification:      r.Specification,
			Description:        r.Description,
			Sellers:            parseSellers(r.Sellers),
		},
		CategoryNames: r.CategoryName,
		CategoryURLs:  r.CategoryURLs,
	}
}

// Valid reports whether the submission is complete enough to store.
func (d *DetailedInput) Valid() bool {
	return d.Code != "" && d.URL != "" && d.Title != "" && !d.CategoryNames.Empty()
}

// SetID records the product id. It fails when an id is already set.
func (d *DetailedInput) SetID(id int64) error {
	if d.ID != 0 {
		return apperr.Conflict("Product id was defined before")
	}
	d.ID = id
	return nil
}

// SetCategories records the resolved category path. It fails on a second call.
func (d *DetailedInput) SetCategories(p category.Path) error {
	if d.categoriesSet {
		return apperr.Conflict("Category path was defined before")
	}
	d.categories = p
	d.categoriesSet = true
	return nil
}

// AddInput returns the base upsert part of the submission.
func (d *DetailedInput) AddInput() AddInput {
	return AddInput{
		Code:       d.Code,
		URL:        d.URL,
		Title:      d.Title,
		Categories: d.categories,
	}
}
