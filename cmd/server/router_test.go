package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/kaspistat/catalog-service/internal/middleware"
)

type stubRoutes struct{}

func (stubRoutes) Register(api gin.IRouter) {
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentSession(c).UserID})
	})
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return newRouter(stubRoutes{}, routerOptions{
		apiKey:   "key",
		limiter:  middleware.NewIPRateLimiter(middleware.DefaultRateLimitConfig()),
		limitAll: true,
		logger:   zerolog.Nop(),
	})
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAPIRequiresInternalKey(t *testing.T) {
	r := testRouter()

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("X-Internal-API-Key", "key")
	req.Header.Set("X-User-Id", "7")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":7}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestOpenRoutes(t *testing.T) {
	r := testRouter()

	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Catalog Service API")
}
