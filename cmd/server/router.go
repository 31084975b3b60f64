package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/kaspistat/catalog-service/docs"
	"github.com/kaspistat/catalog-service/internal/handlers"
	"github.com/kaspistat/catalog-service/internal/metrics"
	"github.com/kaspistat/catalog-service/internal/middleware"
)

type routerOptions struct {
	apiKey   string
	limiter  *middleware.IPRateLimiter
	limitAll bool
	logger   zerolog.Logger
	metrics  *metrics.Recorder
}

// routes is the part of app the router needs.
type routes interface {
	Register(api gin.IRouter)
}

func (a *app) Register(api gin.IRouter) { a.handler.Register(api) }

func newRouter(api routes, opts routerOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(opts.logger, opts.metrics))
	if opts.limitAll && opts.limiter != nil {
		router.Use(middleware.RateLimit(opts.limiter))
	}

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	group := router.Group("/api")
	group.Use(middleware.InternalAuth(opts.apiKey))
	group.Use(middleware.Session())
	api.Register(group)

	return router
}
