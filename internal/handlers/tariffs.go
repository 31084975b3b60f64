package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/tariff"
)

type TariffsResponse struct {
	Items []tariff.Tariff `json:"items"`
}

type DeleteTariffResponse struct {
	Success bool `json:"success"`
}

// ListTariffs returns the active tariffs
// @Summary List tariffs
// @Tags tariffs
// @Produce json
// @Success 200 {object} TariffsResponse
// @Router /api/tariffs [get]
func (h *Handler) ListTariffs(c *gin.Context) {
	items, err := h.tariffs.FetchAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TariffsResponse{Items: items})
}

// GetTariff returns one active tariff
// @Summary Get tariff
// @Tags tariffs
// @Produce json
// @Param id path int true "Tariff id"
// @Success 200 {object} tariff.Tariff
// @Failure 404 {object} ErrorResponse
// @Router /api/tariffs/{id} [get]
func (h *Handler) GetTariff(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	t, err := h.tariffs.FetchOne(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// CreateTariff adds a tariff
// @Summary Create tariff
// @Tags tariffs
// @Accept json
// @Produce json
// @Param request body tariff.Tariff true "Tariff"
// @Success 201 {object} tariff.Tariff
// @Failure 400 {object} ErrorResponse
// @Router /api/tariffs [post]
func (h *Handler) CreateTariff(c *gin.Context) {
	var req tariff.Tariff
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.Validation("Could not add new tariff", err))
		return
	}
	t, err := h.tariffs.Add(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// UpdateTariff patches a tariff
// @Summary Update tariff
// @Tags tariffs
// @Accept json
// @Produce json
// @Param id path int true "Tariff id"
// @Param request body tariff.Patch true "Changed fields"
// @Success 200 {object} tariff.Tariff
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/tariffs/{id} [put]
func (h *Handler) UpdateTariff(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var patch tariff.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.respondError(c, apperr.Validation("Could not change tariff", err))
		return
	}
	t, err := h.tariffs.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteTariff soft-deletes a tariff
// @Summary Delete tariff
// @Tags tariffs
// @Produce json
// @Param id path int true "Tariff id"
// @Success 200 {object} DeleteTariffResponse
// @Router /api/tariffs/{id} [delete]
func (h *Handler) DeleteTariff(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok, err := h.tariffs.Delete(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteTariffResponse{Success: ok})
}
