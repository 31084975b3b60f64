package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/middleware"
	"github.com/kaspistat/catalog-service/internal/session"
	"github.com/kaspistat/catalog-service/internal/subscription"
)

// subscriptionOwner resolves :userId and checks the caller may act on it.
func subscriptionOwner(c *gin.Context, denied string) (int64, error) {
	userID, err := paramID(c, "userId")
	if err != nil {
		return 0, err
	}
	sess := middleware.CurrentSession(c)
	if !sess.Has(session.RoleAdmin) && sess.UserID != userID {
		return 0, apperr.Forbidden(denied)
	}
	return userID, nil
}

// GetSubscription returns the live subscription of a user
// @Summary Active subscription
// @Tags subscriptions
// @Produce json
// @Param userId path int true "User id"
// @Success 200 {object} subscription.Subscription
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/subscription/{userId} [get]
func (h *Handler) GetSubscription(c *gin.Context) {
	userID, err := subscriptionOwner(c, "User can`t get subscription of another user")
	if err != nil {
		h.respondError(c, err)
		return
	}
	sub, err := h.subscriptions.GetActive(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if sub == nil {
		h.respondError(c, apperr.NotFound("Could not find subscription of the user"))
		return
	}
	c.JSON(http.StatusOK, sub)
}

// CancelSubscription cancels the live subscription of a user at the payment
// provider and returns it as it was before cancelling
// @Summary Cancel subscription
// @Tags subscriptions
// @Produce json
// @Param userId path int true "User id"
// @Success 200 {object} subscription.Subscription
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/subscription/{userId} [delete]
func (h *Handler) CancelSubscription(c *gin.Context) {
	userID, err := subscriptionOwner(c, "User don`t have access to subscription of another user")
	if err != nil {
		h.respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	sub, err := h.subscriptions.GetActive(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if sub == nil || sub.Status == subscription.StatusWillBeCancelled {
		h.respondError(c, apperr.NotFound("Could not find active subscription of the user"))
		return
	}
	if _, err := h.subscriptions.Cancel(ctx, *sub); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
