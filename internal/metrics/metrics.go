// Package metrics exposes the service's prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequests counts served requests by route template and status.
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// httpDuration tracks request latency per route template.
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "route"})

	// productSaves counts detail saves by outcome.
	productSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_product_saves_total",
		Help: "Total number of product detail saves by outcome",
	}, []string{"outcome"}) // outcome: ok, not_found, invalid, error

	// productAdds counts base product upserts.
	productAdds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_product_adds_total",
		Help: "Total number of product upserts by result",
	}, []string{"result"}) // result: created, merged

	// windowMisses counts rating-change windows with no history row.
	windowMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_rating_window_misses_total",
		Help: "Rating quantity change windows computed without a history row",
	}, []string{"period"})

	// categoryStatusChanges counts nodes touched by the status cascade.
	categoryStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_category_status_changes_total",
		Help: "Category nodes persisted by the status cascade",
	}, []string{"status"})

	// categoriesCreated counts categories created by save or path upsert.
	categoriesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_categories_created_total",
		Help: "Categories created by source",
	}, []string{"source"}) // source: save, path

	// treeFetchDuration tracks full tree loads.
	treeFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_category_tree_fetch_duration_seconds",
		Help:    "Time taken to load a category tree",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})

	// sellerLinks counts product-to-seller association changes.
	sellerLinks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_seller_links_total",
		Help: "Product to seller association changes by operation",
	}, []string{"op"}) // op: insert, delete

	// subscriptionsExpired counts subscriptions moved to Cancelled.
	subscriptionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_subscriptions_expired_total",
		Help: "Subscriptions cancelled by the expiry sweep",
	})

	// requestLogPurged counts product request log rows removed by retention.
	requestLogPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_request_log_purged_total",
		Help: "Product request log rows removed by retention cleanup",
	})
)

// Recorder records service metrics. The zero value and a nil pointer are usable.
type Recorder struct{}

// NewRecorder creates a new metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordHTTPRequest records one served request.
func (m *Recorder) RecordHTTPRequest(method, route, status string, d time.Duration) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordProductSave records the outcome of a detail save.
func (m *Recorder) RecordProductSave(outcome string) {
	productSaves.WithLabelValues(outcome).Inc()
}

// RecordProductAdd records a base product upsert.
func (m *Recorder) RecordProductAdd(created bool) {
	if created {
		productAdds.WithLabelValues("created").Inc()
		return
	}
	productAdds.WithLabelValues("merged").Inc()
}

// RecordWindowMiss records a rating window computed without history.
func (m *Recorder) RecordWindowMiss(period string) {
	windowMisses.WithLabelValues(period).Inc()
}

// RecordCategoryStatus records a node persisted by the status cascade.
func (m *Recorder) RecordCategoryStatus(active bool) {
	if active {
		categoryStatusChanges.WithLabelValues("active").Inc()
		return
	}
	categoryStatusChanges.WithLabelValues("inactive").Inc()
}

// RecordCategoryCreated records a new category.
func (m *Recorder) RecordCategoryCreated(source string) {
	categoriesCreated.WithLabelValues(source).Inc()
}

// RecordTreeFetch records the duration of a tree load.
func (m *Recorder) RecordTreeFetch(d time.Duration) {
	treeFetchDuration.Observe(d.Seconds())
}

// RecordSellerLinks records association inserts and deletes.
func (m *Recorder) RecordSellerLinks(inserted, deleted int) {
	if inserted > 0 {
		sellerLinks.WithLabelValues("insert").Add(float64(inserted))
	}
	if deleted > 0 {
		sellerLinks.WithLabelValues("delete").Add(float64(deleted))
	}
}

// RecordSubscriptionsExpired records subscriptions cancelled by a sweep.
func (m *Recorder) RecordSubscriptionsExpired(n int) {
	subscriptionsExpired.Add(float64(n))
}

// RecordRequestLogPurged records rows removed by retention cleanup.
func (m *Recorder) RecordRequestLogPurged(n int64) {
	requestLogPurged.Add(float64(n))
}
