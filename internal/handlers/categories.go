package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/category"
	"github.com/kaspistat/catalog-service/internal/filter"
)

type CategoryTreeResponse struct {
	Items []*category.SimpleNode `json:"items"`
}

type SaveCategoriesRequest struct {
	// Empty deactivates the parent and its subtree regardless of Categories.
	Empty      bool            `json:"empty"`
	Categories []category.Item `json:"categories"`
}

type SaveCategoriesResponse struct {
	Items []*category.Node `json:"items"`
}

type CategoryDetailsResponse struct {
	Children []category.DetailsRow `json:"children"`
}

// ListCategories returns the whole active tree
// @Summary Category tree
// @Tags categories
// @Produce json
// @Success 200 {object} CategoryTreeResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	nodes, err := h.categories.FetchAllAsTree(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CategoryTreeResponse{Items: nodes})
}

// GetCategoryTree returns an active category with its active descendants
// @Summary Category subtree
// @Tags categories
// @Produce json
// @Param parentId path int true "Category id"
// @Param depth query int false "Levels of children to load, -1 for all" default(-1)
// @Success 200 {object} category.Node
// @Failure 404 {object} ErrorResponse
// @Router /api/categories/{parentId} [get]
func (h *Handler) GetCategoryTree(c *gin.Context) {
	parentID, err := paramID(c, "parentId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	depth, err := queryInt(c, "depth", -1)
	if err != nil {
		h.respondError(c, err)
		return
	}
	node, err := h.categories.FetchTree(c.Request.Context(), parentID, depth)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

// SaveCategories reconciles the children of a category
// @Summary Save category children
// @Tags categories
// @Accept json
// @Produce json
// @Param parentId path int true "Parent category id"
// @Param request body SaveCategoriesRequest true "Children"
// @Success 200 {object} SaveCategoriesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/categories/{parentId} [post]
func (h *Handler) SaveCategories(c *gin.Context) {
	parentID, err := paramID(c, "parentId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req SaveCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.Validation("Request body is not valid", err))
		return
	}
	items := req.Categories
	if req.Empty {
		items = nil
	}
	nodes, err := h.categories.Save(c.Request.Context(), parentID, items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SaveCategoriesResponse{Items: nodes})
}

// CategoryDetails projects the children of a category onto a rating window
// @Summary Category details
// @Tags categories
// @Produce json
// @Param parentId path int false "Parent category id, roots when omitted"
// @Param ratingQuantityChange query int false "Window" Enums(30, 60, 90)
// @Success 200 {object} CategoryDetailsResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/categories-details/{parentId} [get]
func (h *Handler) CategoryDetails(c *gin.Context) {
	period, err := filter.ParsePeriod(c.Query("ratingQuantityChange"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	var parentID int64
	if c.Param("parentId") != "" {
		// A malformed id lists the roots.
		if id, err := paramID(c, "parentId"); err == nil {
			parentID = id
		}
	}
	rows, err := h.categories.Details(c.Request.Context(), parentID, period)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CategoryDetailsResponse{Children: rows})
}
