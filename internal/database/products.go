package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kaspistat/catalog-service/internal/filter"
	"github.com/kaspistat/catalog-service/internal/product"
)

// ProductStore is the pgx-backed product.Store. It also serves the history
// reads of the stat projector.
type ProductStore struct {
	db conn
}

// NewProductStore binds a store to the pool.
func NewProductStore(db conn) *ProductStore {
	return &ProductStore{db: db}
}

var _ product.Store = (*ProductStore)(nil)

// fieldColumns maps every filterable field to its column. Only these
// identifiers are ever interpolated into SQL.
var fieldColumns = map[product.Field]string{
	product.FieldID:                     "id",
	product.FieldUnitPrice:              "COALESCE(unit_price, 0)",
	product.FieldRevenue:                "COALESCE(revenue, 0)",
	product.FieldRatingQuantity:         "rating_quantity",
	product.FieldOffersQuantity:         "offers_quantity",
	product.FieldProductRating:          "product_rating",
	product.FieldRatingQuantityChange30: "rating_quantity_change_30",
	product.FieldRatingQuantityChange60: "rating_quantity_change_60",
	product.FieldRatingQuantityChange90: "rating_quantity_change_90",
}

func column(f product.Field) (string, error) {
	col, ok := fieldColumns[f]
	if !ok {
		return "", fmt.Errorf("unknown product field %q", f)
	}
	return col, nil
}

const productColumns = `
	id, code, title, url, category_id, categories, position, collecting_id, session_id,
	status, attempt, fail_date, fail_description,
	last_see_at, last_checked_at, offers_last_checked_at,
	unit_price, credit_monthly_price, product_rating, reviews_quantity, rating_quantity, offers_quantity,
	specification, gallery_images, description, brand, weight, kaspi_created_at, promo_conditions,
	revenue, rating_quantity_change_30, rating_quantity_change_60, rating_quantity_change_90`

func scanProduct(row pgx.Row) (*product.Product, error) {
	var (
		p                          product.Product
		path, spec, gallery, promo []byte
	)
	err := row.Scan(
		&p.ID, &p.Code, &p.Title, &p.URL, &p.CategoryID, &path, &p.Position, &p.CollectingID, &p.SessionID,
		&p.Status, &p.Attempt, &p.FailDate, &p.FailDescription,
		&p.LastSeeAt, &p.LastCheckedAt, &p.OffersLastCheckedAt,
		&p.UnitPrice, &p.CreditMonthlyPrice, &p.ProductRating, &p.ReviewsQuantity, &p.RatingQuantity, &p.OffersQuantity,
		&spec, &gallery, &p.Description, &p.Brand, &p.Weight, &p.KaspiCreatedAt, &promo,
		&p.Revenue, &p.RatingQuantityChange.D30, &p.RatingQuantityChange.D60, &p.RatingQuantityChange.D90,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(path, &p.Categories); err != nil {
		return nil, fmt.Errorf("decode categories of product %d: %w", p.ID, err)
	}
	if err := decodeJSON(spec, &p.Specification); err != nil {
		return nil, fmt.Errorf("decode specification of product %d: %w", p.ID, err)
	}
	if err := decodeJSON(gallery, &p.GalleryImages); err != nil {
		return nil, fmt.Errorf("decode gallery of product %d: %w", p.ID, err)
	}
	if len(promo) > 0 {
		p.PromoConditions = json.RawMessage(promo)
	}
	return &p, nil
}

func decodeJSON(data []byte, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, v)
}

// encodeJSON marshals v, mapping nil slices to SQL NULL.
func encodeJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return nil, err
	}
	return data, nil
}

func (s *ProductStore) one(ctx context.Context, query string, args ...any) (*product.Product, error) {
	p, err := scanProduct(s.db.QueryRow(ctx, query, args...))
	if missing, err := noRows(err); missing || err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductStore) many(ctx context.Context, query string, args ...any) ([]product.Product, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	out := []product.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *ProductStore) Get(ctx context.Context, id int64) (*product.Product, error) {
	return s.one(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

func (s *ProductStore) GetByCode(ctx context.Context, code string) (*product.Product, error) {
	return s.one(ctx, `SELECT `+productColumns+` FROM products WHERE code = $1 ORDER BY id LIMIT 1`, code)
}

func (s *ProductStore) GetByURL(ctx context.Context, url string) (*product.Product, error) {
	return s.one(ctx, `SELECT `+productColumns+` FROM products WHERE url = $1 ORDER BY id LIMIT 1`, url)
}

// productArgs returns every writable column value in productColumns order,
// without the id.
func productArgs(p *product.Product) ([]any, error) {
	path, err := json.Marshal(p.Categories)
	if err != nil {
		return nil, fmt.Errorf("encode categories: %w", err)
	}
	spec, err := encodeJSON(p.Specification)
	if err != nil {
		return nil, fmt.Errorf("encode specification: %w", err)
	}
	gallery, err := encodeJSON(p.GalleryImages)
	if err != nil {
		return nil, fmt.Errorf("encode gallery: %w", err)
	}
	var promo []byte
	if len(p.PromoConditions) > 0 {
		promo = p.PromoConditions
	}
	return []any{
		p.Code, p.Title, p.URL, p.CategoryID, path, p.Position, p.CollectingID, p.SessionID,
		p.Status, p.Attempt, p.FailDate, p.FailDescription,
		p.LastSeeAt, p.LastCheckedAt, p.OffersLastCheckedAt,
		p.UnitPrice, p.CreditMonthlyPrice, p.ProductRating, p.ReviewsQuantity, p.RatingQuantity, p.OffersQuantity,
		spec, gallery, p.Description, p.Brand, p.Weight, p.KaspiCreatedAt, promo,
		p.Revenue, p.RatingQuantityChange.D30, p.RatingQuantityChange.D60, p.RatingQuantityChange.D90,
	}, nil
}

// writableColumns is productColumns without id.
var writableColumns = strings.Split(strings.Join(strings.Fields(productColumns), ""), ",")[1:]

func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ", ")
}

func (s *ProductStore) Create(ctx context.Context, p *product.Product) error {
	args, err := productArgs(p)
	if err != nil {
		return err
	}
	query := `INSERT INTO products (` + strings.Join(writableColumns, ", ") + `)
		VALUES (` + placeholders(1, len(writableColumns)) + `) RETURNING id`
	if err := s.db.QueryRow(ctx, query, args...).Scan(&p.ID); err != nil {
		return fmt.Errorf("insert product %q: %w", p.Code, err)
	}
	return nil
}

func (s *ProductStore) Update(ctx context.Context, p *product.Product) error {
	args, err := productArgs(p)
	if err != nil {
		return err
	}
	sets := make([]string, len(writableColumns))
	for i, col := range writableColumns {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+2)
	}
	query := `UPDATE products SET ` + strings.Join(sets, ", ") + `, updated_at = now() WHERE id = $1`
	if _, err := s.db.Exec(ctx, query, append([]any{p.ID}, args...)...); err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return nil
}

func (s *ProductStore) ListForCollect(ctx context.Context, q product.CollectQuery) ([]product.Product, error) {
	if len(q.CategoryIDs) == 0 {
		return []product.Product{}, nil
	}
	where := []string{"category_id = ANY($1)", fmt.Sprintf("(status = %d OR attempt < %d)", product.StatusOK, product.MaxAttempts)}
	args := []any{q.CategoryIDs}

	if q.Depth > 0 {
		args = append(args, q.Depth)
		where = append(where, fmt.Sprintf("position BETWEEN 1 AND $%d", len(args)))
	}
	order := "id"
	if q.Checked {
		where = append(where, "last_checked_at IS NOT NULL")
		order = "last_checked_at"
	} else {
		where = append(where, "last_checked_at IS NULL")
	}
	if q.CheckedBefore != nil {
		args = append(args, *q.CheckedBefore)
		where = append(where, fmt.Sprintf("last_checked_at < $%d", len(args)))
	}
	dir := filter.Asc
	if q.Desc {
		dir = filter.Desc
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY ` + order + ` ` + string(dir) + `, id ` + string(dir)
	return s.many(ctx, query, args...)
}

// listWhere builds the WHERE clause of the client listing.
func listWhere(f product.ListFilter) (string, []any, error) {
	where := []string{"last_checked_at IS NOT NULL", "category_id = ANY($1)"}
	args := []any{f.CategoryIDs}
	for _, rf := range f.Ranges {
		if rf.Range.Empty() {
			continue
		}
		col, err := column(rf.Field)
		if err != nil {
			return "", nil, err
		}
		if rf.Range.From != nil {
			args = append(args, *rf.Range.From)
			where = append(where, fmt.Sprintf("%s >= $%d", col, len(args)))
		}
		if rf.Range.To != nil {
			args = append(args, *rf.Range.To)
			where = append(where, fmt.Sprintf("%s <= $%d", col, len(args)))
		}
	}
	return strings.Join(where, " AND "), args, nil
}

func (s *ProductStore) Count(ctx context.Context, f product.ListFilter) (int, error) {
	where, args, err := listWhere(f)
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM products WHERE `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (s *ProductStore) List(ctx context.Context, f product.ListFilter, sort filter.Sort, limit, offset int) ([]product.Product, error) {
	where, args, err := listWhere(f)
	if err != nil {
		return nil, err
	}
	col, err := column(product.Field(sort.Field))
	if err != nil {
		return nil, err
	}
	dir := filter.Asc
	if sort.Order == filter.Desc {
		dir = filter.Desc
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		productColumns, where, col, dir, dir, len(args)-1, len(args))
	return s.many(ctx, query, args...)
}

const historyColumns = `
	id, product_id, parsing_id, session_id, created_at, unit_price, credit_monthly_price,
	product_rating, reviews_quantity, rating_quantity, rating_quantity_change, offers_quantity,
	product_sellers, revenue, fail_description`

func scanHistory(row pgx.Row) (*product.History, error) {
	var (
		h       product.History
		sellers []byte
	)
	err := row.Scan(
		&h.ID, &h.ProductID, &h.ParsingID, &h.SessionID, &h.CreatedAt, &h.UnitPrice, &h.CreditMonthlyPrice,
		&h.ProductRating, &h.ReviewsQuantity, &h.RatingQuantity, &h.RatingQuantityChange, &h.OffersQuantity,
		&sellers, &h.Revenue, &h.FailDescription,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(sellers, &h.ProductSellers); err != nil {
		return nil, fmt.Errorf("decode sellers of history %d: %w", h.ID, err)
	}
	return &h, nil
}

func (s *ProductStore) oneHistory(ctx context.Context, query string, args ...any) (*product.History, error) {
	h, err := scanHistory(s.db.QueryRow(ctx, query, args...))
	if missing, err := noRows(err); missing || err != nil {
		return nil, err
	}
	return h, nil
}

func (s *ProductStore) manyHistory(ctx context.Context, query string, args ...any) ([]product.History, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := []product.History{}
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

func (s *ProductStore) AddHistory(ctx context.Context, h *product.History) error {
	sellers, err := encodeJSON(h.ProductSellers)
	if err != nil {
		return fmt.Errorf("encode sellers: %w", err)
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	err = s.db.QueryRow(ctx, `
		INSERT INTO product_history (
			product_id, parsing_id, session_id, created_at, unit_price, credit_monthly_price,
			product_rating, reviews_quantity, rating_quantity, rating_quantity_change, offers_quantity,
			product_sellers, revenue, fail_description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`, h.ProductID, h.ParsingID, h.SessionID, h.CreatedAt, h.UnitPrice, h.CreditMonthlyPrice,
		h.ProductRating, h.ReviewsQuantity, h.RatingQuantity, h.RatingQuantityChange, h.OffersQuantity,
		sellers, h.Revenue, h.FailDescription).Scan(&h.ID)
	if err != nil {
		return fmt.Errorf("insert history of product %d: %w", h.ProductID, err)
	}
	return nil
}

func (s *ProductStore) LastHistory(ctx context.Context, productID int64) (*product.History, error) {
	return s.oneHistory(ctx, `
		SELECT `+historyColumns+` FROM product_history
		WHERE product_id = $1
		ORDER BY id DESC
		LIMIT 1
	`, productID)
}

func (s *ProductStore) OldestHistorySince(ctx context.Context, productID int64, since, until time.Time) (*product.History, error) {
	return s.oneHistory(ctx, `
		SELECT `+historyColumns+` FROM product_history
		WHERE product_id = $1 AND created_at BETWEEN $2 AND $3
		ORDER BY id
		LIMIT 1
	`, productID, since, until)
}

func (s *ProductStore) HasHistoryBefore(ctx context.Context, productID int64, before time.Time) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM product_history WHERE product_id = $1 AND created_at < $2)
	`, productID, before).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("probe history of product %d: %w", productID, err)
	}
	return exists, nil
}

// HistoryBetween returns rows created in [from, to], newest first.
func (s *ProductStore) HistoryBetween(ctx context.Context, productID int64, from, to time.Time) ([]product.History, error) {
	return s.manyHistory(ctx, `
		SELECT `+historyColumns+` FROM product_history
		WHERE product_id = $1 AND created_at BETWEEN $2 AND $3
		ORDER BY created_at DESC, id DESC
	`, productID, from, to)
}

// LatestHistory returns at most limit rows, newest first.
func (s *ProductStore) LatestHistory(ctx context.Context, productID int64, limit int) ([]product.History, error) {
	return s.manyHistory(ctx, `
		SELECT `+historyColumns+` FROM product_history
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, productID, limit)
}

func (s *ProductStore) SellersByCodes(ctx context.Context, codes []string) ([]product.Seller, error) {
	out := []product.Seller{}
	if len(codes) == 0 {
		return out, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, code, name, url, session_id FROM sellers WHERE code = ANY($1) ORDER BY id
	`, codes)
	if err != nil {
		return nil, fmt.Errorf("query sellers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sl product.Seller
		if err := rows.Scan(&sl.ID, &sl.Code, &sl.Name, &sl.URL, &sl.SessionID); err != nil {
			return nil, fmt.Errorf("scan seller: %w", err)
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}

func (s *ProductStore) CreateSeller(ctx context.Context, sl *product.Seller) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO sellers (code, name, url, session_id) VALUES ($1, $2, $3, $4) RETURNING id
	`, sl.Code, sl.Name, sl.URL, sl.SessionID).Scan(&sl.ID)
	if err != nil {
		return fmt.Errorf("insert seller %q: %w", sl.Code, err)
	}
	return nil
}

func (s *ProductStore) UpdateSeller(ctx context.Context, sl *product.Seller) error {
	_, err := s.db.Exec(ctx, `
		UPDATE sellers SET code = $2, name = $3, url = $4, session_id = $5, updated_at = now() WHERE id = $1
	`, sl.ID, sl.Code, sl.Name, sl.URL, sl.SessionID)
	if err != nil {
		return fmt.Errorf("update seller %d: %w", sl.ID, err)
	}
	return nil
}

func (s *ProductStore) SellerLinks(ctx context.Context, productID int64) ([]product.SellerLink, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, product_id, seller_id FROM product_to_seller WHERE product_id = $1 ORDER BY id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("query seller links: %w", err)
	}
	defer rows.Close()

	var out []product.SellerLink
	for rows.Next() {
		var l product.SellerLink
		if err := rows.Scan(&l.ID, &l.ProductID, &l.SellerID); err != nil {
			return nil, fmt.Errorf("scan seller link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *ProductStore) DeleteSellerLinks(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM product_to_seller WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("delete seller links: %w", err)
	}
	return nil
}

func (s *ProductStore) InsertSellerLinks(ctx context.Context, productID int64, sellerIDs []int64) error {
	if len(sellerIDs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, sid := range sellerIDs {
		batch.Queue(`
			INSERT INTO product_to_seller (product_id, seller_id) VALUES ($1, $2)
			ON CONFLICT (product_id, seller_id) DO NOTHING
		`, productID, sid)
	}

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()
	for i := range sellerIDs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert seller link %d: %w", i, err)
		}
	}
	return nil
}

func (s *ProductStore) InTx(ctx context.Context, fn func(product.Store) error) error {
	return inTx(ctx, s.db, func(tx pgx.Tx) error {
		return fn(&ProductStore{db: tx})
	})
}
