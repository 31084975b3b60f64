package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/middleware"
	"github.com/kaspistat/catalog-service/internal/product"
)

// ProductResponse is the stored product as returned to scrapers.
type ProductResponse struct {
	ID                 int64               `json:"id"`
	Code               string              `json:"code"`
	Title              string              `json:"title"`
	URL                string              `json:"url"`
	UnitPrice          decimal.NullDecimal `json:"unitPrice" swaggertype:"number"`
	CreditMonthlyPrice decimal.NullDecimal `json:"creditMonthlyPrice" swaggertype:"number"`
	OffersQuantity     int64               `json:"offersQuantity"`
	ReviewsQuantity    int64               `json:"reviewsQuantity"`
	RatingQuantity     int64               `json:"ratingQuantity"`
	Description        string              `json:"description"`
	Specification      []product.Spec      `json:"specification"`
	GalleryImages      []product.Image     `json:"galleryImages"`
	LastCheckedAt      *time.Time          `json:"lastCheckedAt"`
	ProductRating      float64             `json:"productRating"`
	Status             int                 `json:"status"`
	Brand              string              `json:"brand"`
	PromoConditions    json.RawMessage     `json:"promoConditions,omitempty" swaggertype:"object"`
}

func toProductResponse(p *product.Product) ProductResponse {
	spec := p.Specification
	if spec == nil {
		spec = []product.Spec{}
	}
	gallery := p.GalleryImages
	if gallery == nil {
		gallery = []product.Image{}
	}
	return ProductResponse{
		ID:                 p.ID,
		Code:               p.Code,
		Title:              p.Title,
		URL:                p.URL,
		UnitPrice:          p.UnitPrice,
		CreditMonthlyPrice: p.CreditMonthlyPrice,
		OffersQuantity:     p.OffersQuantity,
		ReviewsQuantity:    p.ReviewsQuantity,
		RatingQuantity:     p.RatingQuantity,
		Description:        p.Description,
		Specification:      spec,
		GalleryImages:      gallery,
		LastCheckedAt:      p.LastCheckedAt,
		ProductRating:      p.ProductRating,
		Status:             p.Status,
		Brand:              p.Brand,
		PromoConditions:    p.PromoConditions,
	}
}

type CategoryProductsResponse struct {
	Items []product.CategoryProduct `json:"items"`
}

// AddProduct upserts a product found on a category page
// @Summary Add product
// @Tags products
// @Accept json
// @Produce json
// @Param request body product.AddRequest true "Product"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/products [post]
func (h *Handler) AddProduct(c *gin.Context) {
	var req product.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.Validation("Could not add product by this data", err))
		return
	}
	p, err := h.products.Add(c.Request.Context(), middleware.CurrentSession(c), product.ParseAdd(req))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(p))
}

// AddDetailedProduct stores a product page submitted by a browser client
// @Summary Add or update product from its page
// @Tags products
// @Accept json
// @Produce json
// @Param request body product.DetailedRequest true "Product page"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/products/detailed [post]
func (h *Handler) AddDetailedProduct(c *gin.Context) {
	var req product.DetailedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.Validation("Could not add/update product by this data", err))
		return
	}
	p, err := h.products.AddAndUpdate(c.Request.Context(), middleware.CurrentSession(c), product.ParseDetailed(req))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(p))
}

// SaveProduct applies a detail scrape to a product
// @Summary Save product details
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product id"
// @Param request body product.SaveRequest true "Scrape result"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [put]
func (h *Handler) SaveProduct(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req product.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.Validation("Could not save product by this data", err))
		return
	}
	p, err := h.products.Save(c.Request.Context(), middleware.CurrentSession(c), id, product.ParseSave(req))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

// ListCategoryProducts lists the products under every leaf of a category
// for the collectors
// @Summary Products to collect
// @Tags products
// @Produce json
// @Param categoryId path int true "Category id"
// @Param depth query int false "Keep products ranked 1..depth"
// @Param reverse query bool false "Reverse order"
// @Param excludeCheckedToday query bool false "Skip products checked today"
// @Success 200 {object} CategoryProductsResponse
// @Router /api/products/{categoryId} [get]
func (h *Handler) ListCategoryProducts(c *gin.Context) {
	categoryID, err := paramID(c, "categoryId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	depth, err := queryInt(c, "depth", 0)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	leaves, err := h.categories.FetchLeafIDs(ctx, categoryID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if len(leaves) == 0 {
		c.JSON(http.StatusOK, CategoryProductsResponse{Items: []product.CategoryProduct{}})
		return
	}

	items, err := h.products.FetchAllInCategory(ctx, leaves, depth, queryBool(c, "reverse"), queryBool(c, "excludeCheckedToday"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if items == nil {
		items = []product.CategoryProduct{}
	}
	c.JSON(http.StatusOK, CategoryProductsResponse{Items: items})
}
