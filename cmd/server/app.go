package main

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/kaspistat/catalog-service/config"
	"github.com/kaspistat/catalog-service/internal/category"
	"github.com/kaspistat/catalog-service/internal/database"
	"github.com/kaspistat/catalog-service/internal/handlers"
	"github.com/kaspistat/catalog-service/internal/metrics"
	"github.com/kaspistat/catalog-service/internal/payment"
	"github.com/kaspistat/catalog-service/internal/product"
	"github.com/kaspistat/catalog-service/internal/requestlog"
	"github.com/kaspistat/catalog-service/internal/stat"
	"github.com/kaspistat/catalog-service/internal/subscription"
	"github.com/kaspistat/catalog-service/internal/tariff"
)

// app holds the wired services.
type app struct {
	categories    *category.Service
	products      *product.Service
	stats         *stat.Service
	tariffs       *tariff.Service
	subscriptions *subscription.Service
	requests      *requestlog.Service
	handler       *handlers.Handler
}

func newApp(cfg *config.Config, pool *pgxpool.Pool, logger *zerolog.Logger, m *metrics.Recorder) *app {
	productStore := database.NewProductStore(pool)

	a := &app{}
	a.categories = category.NewService(
		database.NewCategoryStore(pool),
		*logger,
		category.WithMetrics(m),
		category.WithConcurrency(cfg.Category.Concurrency),
	)
	a.products = product.NewService(
		productStore,
		a.categories,
		*logger,
		product.WithMetrics(m),
		product.WithStrictSave(cfg.Product.StrictSave),
	)
	a.stats = stat.NewService(productStore, *logger)
	a.tariffs = tariff.NewService(database.NewTariffStore(pool))
	a.subscriptions = subscription.NewService(
		database.NewSubscriptionStore(pool),
		payment.NewClient(paymentConfig(cfg.Payment), *logger),
		logger,
		m,
	)
	a.requests = requestlog.NewService(database.NewRequestLogStore(pool), *logger, m)

	a.handler = handlers.New(handlers.Deps{
		Categories:    a.categories,
		Products:      a.products,
		Stats:         a.stats,
		Tariffs:       a.tariffs,
		Subscriptions: a.subscriptions,
		Requests:      a.requests,
	}, handlers.Limits{
		MaxPageSize:     cfg.Listing.MaxPageSize,
		DefaultPageSize: cfg.Listing.DefaultPageSize,
		MaxBasicPeriod:  cfg.Stat.MaxBasicPeriod,
		MaxPeriod:       cfg.Stat.MaxPeriod,
	}, *logger)
	return a
}

func paymentConfig(c config.PaymentConfig) payment.Config {
	cfg := payment.DefaultConfig()
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	cfg.PublicID = c.PublicID
	cfg.Secret = c.Secret
	if c.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = c.RequestsPerSecond
	}
	if c.MaxRetries > 0 {
		cfg.MaxRetries = c.MaxRetries
	}
	if c.InitialBackoff > 0 {
		cfg.InitialBackoff = c.InitialBackoff
	}
	if c.MaxBackoff > 0 {
		cfg.MaxBackoff = c.MaxBackoff
	}
	if c.Timeout > 0 {
		cfg.Timeout = c.Timeout
	}
	return cfg
}
