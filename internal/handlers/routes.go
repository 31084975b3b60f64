package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kaspistat/catalog-service/internal/middleware"
	"github.com/kaspistat/catalog-service/internal/session"
)

// Register mounts every API route on api. Callers must install
// middleware.Session before it.
func (h *Handler) Register(api gin.IRouter) {
	var (
		admin     = middleware.RequireRoles(session.RoleAdmin)
		parser    = middleware.RequireRoles(session.RoleParser)
		premium   = middleware.RequireRoles(session.RolePremiumUser)
		customers = middleware.RequireRoles(session.RoleAdmin, session.RoleSiteUser, session.RolePremiumUser)
		clients   = middleware.RequireRoles(session.RoleSiteUser, session.RoleChromeExtension, session.RolePremiumUser)
		site      = middleware.RequireRoles(session.RoleSiteUser, session.RolePremiumUser)
	)

	api.GET("/categories", premium, h.ListCategories)
	api.GET("/categories/:parentId", parser, h.GetCategoryTree)
	api.POST("/categories/:parentId", parser, h.SaveCategories)
	api.GET("/categories-details", customers, h.CategoryDetails)
	api.GET("/categories-details/:parentId", customers, h.CategoryDetails)

	api.POST("/products", parser, h.AddProduct)
	api.POST("/products/detailed", clients, h.AddDetailedProduct)
	api.PUT("/products/:id", parser, h.SaveProduct)
	api.GET("/products/:categoryId", parser, h.ListCategoryProducts)

	api.GET("/product-details", h.LogProductRequests(), clients, h.ProductDetails)
	api.GET("/product-details/list", site, h.ListProductDetails)

	api.GET("/tariffs", customers, h.ListTariffs)
	api.GET("/tariffs/:id", customers, h.GetTariff)
	api.POST("/tariffs", admin, h.CreateTariff)
	api.PUT("/tariffs/:id", admin, h.UpdateTariff)
	api.DELETE("/tariffs/:id", admin, h.DeleteTariff)

	api.GET("/subscription/:userId", customers, h.GetSubscription)
	api.DELETE("/subscription/:userId", customers, h.CancelSubscription)
}
