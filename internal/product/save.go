package product

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/filter"
	"github.com/kaspistat/catalog-service/internal/session"
	"github.com/kaspistat/catalog-service/internal/telemetry"
)

// Save applies a detail scrape to a product. A not-found scrape only records
// the failure. Otherwise the product is marked checked, every field group
// that scraped cleanly is applied, a history snapshot is appended, and the
// derived revenue and rating change windows are recomputed.
//
// Writes are sequential and only share a transaction in strict mode.
func (s *Service) Save(ctx context.Context, sess session.Session, productID int64, in SaveInput) (*Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "product.Save", attribute.Int64("product.id", productID))
	defer span.End()

	if !in.Valid() {
		s.metrics.RecordProductSave("invalid")
		return nil, apperr.Validation("Could not save product data")
	}

	var p *Product
	run := func(store Store) error {
		var err error
		p, err = s.save(ctx, store, sess, productID, in)
		return err
	}

	var err error
	if s.strictSave {
		err = s.store.InTx(ctx, run)
	} else {
		err = run(s.store)
	}
	if err != nil {
		span.RecordError(err)
		if apperr.Is(err, apperr.KindNotFound) {
			s.metrics.RecordProductSave("not_found")
		} else {
			s.metrics.RecordProductSave("error")
		}
		return nil, err
	}

	if in.NotFound {
		s.metrics.RecordProductSave("failed")
	} else {
		s.metrics.RecordProductSave("ok")
	}
	return p, nil
}

func (s *Service) save(ctx context.Context, store Store, sess session.Session, productID int64, in SaveInput) (*Product, error) {
	p, err := store.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}
	if p == nil {
		return nil, apperr.NotFound("Could not find product by id")
	}

	now := s.now()
	if in.NotFound {
		p.Status = StatusFailed
		p.FailDate = &now
		p.FailDescription = in.Errors.Message()
		p.Attempt++
		if err := store.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("mark product %d failed: %w", productID, err)
		}
		return p, nil
	}

	last, err := store.LastHistory(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("last history of %d: %w", productID, err)
	}

	p.LastCheckedAt = &now
	p.Status = StatusOK
	p.FailDate = nil
	p.FailDescription = ""
	p.Attempt = 0
	if p.Code == "" {
		p.Code = in.Code
	}

	h := &History{
		ProductID: productID,
		ParsingID: in.ParsingID,
		SessionID: sess.SessionID,
		CreatedAt: now,
	}
	if in.Errors.Any() {
		msg := in.Errors.Message()
		h.FailDescription = &msg
	}

	if in.Result(GroupReviews).OK() {
		applyReviews(p, h, in)
	}
	if in.Description != "" && in.Result(GroupDescription).OK() {
		p.Description = in.Description
	}
	if in.Sellers != nil && in.Result(GroupSellers).OK() {
		prices, err := s.reconcileSellers(ctx, store, sess, productID, in.Sellers)
		if err != nil {
			return nil, err
		}
		h.ProductSellers = prices
		p.OffersLastCheckedAt = &now
	}
	if in.UnitPrice.Valid {
		p.UnitPrice = in.UnitPrice
		h.UnitPrice = in.UnitPrice
	}
	if in.CreditMonthlyPrice.Valid {
		p.CreditMonthlyPrice = in.CreditMonthlyPrice
		h.CreditMonthlyPrice = in.CreditMonthlyPrice
	}
	if in.OffersQuantity != nil {
		p.OffersQuantity = *in.OffersQuantity
		h.OffersQuantity = in.OffersQuantity
	}
	if in.Result(GroupDetails).OK() {
		applyDetails(p, in)
	}
	if in.Specification != nil && in.Result(GroupSpecification).OK() {
		p.Specification = in.Specification
	}

	p.Revenue = decimal.NewNullDecimal(Revenue(p, last))
	h.Revenue = p.Revenue

	if err := store.AddHistory(ctx, h); err != nil {
		return nil, fmt.Errorf("add history for %d: %w", productID, err)
	}

	if err := s.updateWindows(ctx, store, p, h, now); err != nil {
		return nil, err
	}

	if err := store.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product %d: %w", productID, err)
	}
	return p, nil
}

// applyReviews sets rating fields. The history's rating change is the
// growth since the previous save and never negative.
func applyReviews(p *Product, h *History, in SaveInput) {
	if in.Rating != nil {
		p.ProductRating = *in.Rating
		h.ProductRating = in.Rating
	}
	if in.ReviewsQuantity != nil {
		p.ReviewsQuantity = *in.ReviewsQuantity
		h.ReviewsQuantity = in.ReviewsQuantity
	}
	if in.RatingQuantity != nil {
		change := max(0, *in.RatingQuantity-p.RatingQuantity)
		h.RatingQuantityChange = &change
		p.RatingQuantity = *in.RatingQuantity
		h.RatingQuantity = in.RatingQuantity
	}
}

// applyDetails sets page details. Brand and creation date are write-once.
func applyDetails(p *Product, in SaveInput) {
	if in.GalleryImages != nil {
		p.GalleryImages = in.GalleryImages
	}
	if p.Brand == "" && in.Brand != "" {
		p.Brand = in.Brand
	}
	if in.Weight != "" {
		p.Weight = in.Weight
	}
	if p.KaspiCreatedAt == nil && in.CreatedTime != "" {
		p.KaspiCreatedAt = ParseMarketDate(in.CreatedTime)
	}
	if in.PromoConditions != nil {
		p.PromoConditions = in.PromoConditions
	}
}

// Revenue estimates money earned from rating growth. Without a previous
// snapshot it bootstraps as price × rating quantity; otherwise the last
// snapshot's revenue grows by price × the quantity delta. Missing values
// count as zero and a quantity regression makes the delta negative.
func Revenue(p *Product, last *History) decimal.Decimal {
	price := p.UnitPrice.Decimal
	if last == nil {
		return price.Mul(decimal.NewFromInt(p.RatingQuantity))
	}
	var lastQty int64
	if last.RatingQuantity != nil {
		lastQty = *last.RatingQuantity
	}
	delta := decimal.NewFromInt(p.RatingQuantity - lastQty)
	return last.Revenue.Decimal.Add(price.Mul(delta))
}

// updateWindows recomputes the 30/60/90 day rating change against the
// oldest snapshot inside each window. A window with no snapshot counts as no
// change.
func (s *Service) updateWindows(ctx context.Context, store Store, p *Product, h *History, now time.Time) error {
	current := p.RatingQuantity
	if h.RatingQuantity != nil {
		current = *h.RatingQuantity
	}

	for _, period := range filter.Periods {
		since := now.AddDate(0, 0, -period.Days())
		oldest, err := store.OldestHistorySince(ctx, p.ID, since, now)
		if err != nil {
			return fmt.Errorf("history window %s for %d: %w", period, p.ID, err)
		}
		if oldest == nil {
			s.logger.Warn().
				Int64("product_id", p.ID).
				Int("period", period.Days()).
				Msg("no history in rating window, treating change as zero")
			s.metrics.RecordWindowMiss(period.String())
			p.RatingQuantityChange.set(period, 0)
			continue
		}
		var base int64
		if oldest.RatingQuantity != nil {
			base = *oldest.RatingQuantity
		}
		p.RatingQuantityChange.set(period, current-base)
	}
	return nil
}
