package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/filter"
	"github.com/kaspistat/catalog-service/internal/middleware"
	"github.com/kaspistat/catalog-service/internal/product"
	"github.com/kaspistat/catalog-service/internal/session"
	"github.com/kaspistat/catalog-service/internal/stat"
)

// ProductDetailsResponse is a product card with the requested series.
type ProductDetailsResponse struct {
	Code            string              `json:"code"`
	DateLastCheck   string              `json:"dateLastCheck"`
	GalleryImages   []string            `json:"galleryImages"`
	Period          int                 `json:"period"`
	Rating          float64             `json:"rating"`
	ReviewsQuantity int64               `json:"reviewsQuantity"`
	RatingQuantity  int64               `json:"ratingQuantity"`
	Title           string              `json:"title"`
	UnitPrice       decimal.NullDecimal `json:"unitPrice" swaggertype:"number"`
	URL             string              `json:"url"`
	Brand           string              `json:"brand"`
	Weight          string              `json:"weight"`
	Revenue         decimal.NullDecimal `json:"revenue" swaggertype:"number"`
	KaspiCreatedAt  string              `json:"kaspiCreatedAt"`
	stat.Stat
}

func toDetailsResponse(p *product.Product, st stat.Stat, period int) ProductDetailsResponse {
	gallery := make([]string, 0, len(p.GalleryImages)*3)
	for _, img := range p.GalleryImages {
		gallery = append(gallery, img.Large, img.Medium, img.Small)
	}
	return ProductDetailsResponse{
		Code:            p.Code,
		DateLastCheck:   product.FormatDate(p.LastCheckedAt),
		GalleryImages:   gallery,
		Period:          period,
		Rating:          p.ProductRating,
		ReviewsQuantity: p.ReviewsQuantity,
		RatingQuantity:  p.RatingQuantity,
		Title:           p.Title,
		UnitPrice:       p.UnitPrice,
		URL:             p.URL,
		Brand:           p.Brand,
		Weight:          p.Weight,
		Revenue:         p.Revenue,
		KaspiCreatedAt:  product.FormatDate(p.KaspiCreatedAt),
		Stat:            st,
	}
}

// checkPeriod caps the stat period by the caller's roles.
func (h *Handler) checkPeriod(sess session.Session, period int) error {
	if !sess.Has(session.RoleSiteUser, session.RolePremiumUser) && period > h.limits.MaxBasicPeriod {
		return apperr.Validation("Max period value is " + strconv.Itoa(h.limits.MaxBasicPeriod))
	}
	if period > h.limits.MaxPeriod {
		return apperr.Validation("Max period value is " + strconv.Itoa(h.limits.MaxPeriod))
	}
	return nil
}

func checkTypes(sess session.Session, p *product.Product, types []stat.Type) error {
	if sess.IsPremium() || p.Free {
		return nil
	}
	if len(types) > 1 || types[0] != stat.TypePrices {
		return apperr.Forbidden("Access to this data types is forbidden")
	}
	return nil
}

// ProductDetails returns a product card and its history series
// @Summary Product details
// @Tags product-details
// @Produce json
// @Param q query string true "Product url or code"
// @Param period query int true "Days of history"
// @Param data_type query []string true "Series" collectionFormat(multi) Enums(prices, rating, reviews, ratingсount, sellers)
// @Param mode query string false "Response mode" Enums(dates, values)
// @Success 200 {object} ProductDetailsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/product-details [get]
func (h *Handler) ProductDetails(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	code, err := product.ResolveCode(c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	period, err := stat.ParsePeriod(c.Query("period"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	types, err := stat.ParseTypes(strings.Join(c.QueryArray("data_type"), ","))
	if err != nil {
		h.respondError(c, err)
		return
	}
	mode, err := stat.ParseMode(c.Query("mode"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.checkPeriod(sess, period); err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	p, err := h.products.FetchOne(ctx, code)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := checkTypes(sess, p, types); err != nil {
		h.respondError(c, err)
		return
	}

	st, err := h.stats.Fetch(ctx, p.ID, period, types, mode)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDetailsResponse(p, st, period))
}

// LogProductRequests records every product-details lookup once the response
// status is known.
func (h *Handler) LogProductRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		var fail string
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			fail = http.StatusText(status)
		case status >= http.StatusBadRequest:
			fail = c.GetString(errorMessageKey)
			if fail == "" {
				fail = http.StatusText(status)
			}
		}
		if err := h.requests.Log(c.Request.Context(), middleware.CurrentSession(c), c.Query("q"), fail); err != nil {
			h.logger.Warn().Err(err).Msg("could not log product request")
		}
	}
}

// parseListQuery reads the client listing parameters.
func (h *Handler) parseListQuery(c *gin.Context) (product.ListQuery, error) {
	var q product.ListQuery

	number, err := queryInt(c, "page", 1)
	if err != nil {
		return q, apperr.Validation("Page number is not valid")
	}
	size, err := queryInt(c, "size", h.limits.DefaultPageSize)
	if err != nil {
		size = -1
	}
	if q.Page, err = filter.ValidatePage(number, size, h.limits.MaxPageSize); err != nil {
		return q, err
	}
	if q.Period, err = filter.ParsePeriod(c.Query("ratingQuantityChange")); err != nil {
		return q, err
	}

	ranges := []struct {
		param   string
		field   string
		integer bool
		dst     **filter.Range[float64]
	}{
		{"price", "price", true, &q.Price},
		{"revenue", "revenue", true, &q.Revenue},
		{"ratingQuantity", "rating quantity", true, &q.RatingQuantity},
		{"ratingQuantityChange", "rating quantity change", true, &q.RatingQuantityChange},
		{"offersQuantity", "offers quantity", true, &q.OffersQuantity},
		{"rating", "rating", false, &q.Rating},
	}
	for _, r := range ranges {
		from, err := queryFloat(c, r.param+"From")
		if err != nil {
			return q, apperr.Validation("From " + r.field + " value is not valid")
		}
		to, err := queryFloat(c, r.param+"To")
		if err != nil {
			return q, apperr.Validation("To " + r.field + " value is not valid")
		}
		if *r.dst, err = filter.ValidateNumberRange(from, to, r.field, r.integer); err != nil {
			return q, err
		}
	}

	if q.Page.Sort, err = product.ParseListSort(c.Query("sorting"), q.Period); err != nil {
		return q, err
	}
	return q, q.Validate()
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, apperr.Validation("Categories are not valid")
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, apperr.Validation("Categories are not defined")
	}
	return ids, nil
}

// ListProductDetails is the filtered client listing
// @Summary Product listing
// @Tags product-details
// @Produce json
// @Param categories query string true "Comma separated category ids"
// @Param ratingQuantityChange query int false "Window" Enums(30, 60, 90)
// @Param priceFrom query number false "Price from"
// @Param priceTo query number false "Price to"
// @Param revenueFrom query number false "Revenue from"
// @Param revenueTo query number false "Revenue to"
// @Param ratingQuantityFrom query number false "Rating quantity from"
// @Param ratingQuantityTo query number false "Rating quantity to"
// @Param ratingQuantityChangeFrom query number false "Rating quantity change from"
// @Param ratingQuantityChangeTo query number false "Rating quantity change to"
// @Param offersQuantityFrom query number false "Offers quantity from"
// @Param offersQuantityTo query number false "Offers quantity to"
// @Param ratingFrom query number false "Rating from"
// @Param ratingTo query number false "Rating to"
// @Param page query int true "Page number" default(1)
// @Param size query int false "Page size" default(10) maximum(10)
// @Param sorting query string false "field[,asc|desc]"
// @Success 200 {object} filter.Listing[product.ListItem]
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/product-details/list [get]
func (h *Handler) ListProductDetails(c *gin.Context) {
	ids, err := parseIDList(c.Query("categories"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	q, err := h.parseListQuery(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	fetch := h.products.FetchAllFree
	if middleware.CurrentSession(c).IsPremium() {
		fetch = h.products.FetchAll
	}
	listing, err := fetch(c.Request.Context(), ids, q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}
