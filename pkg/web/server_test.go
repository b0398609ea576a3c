package web

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	s, err := NewServer(opts)
	require.NoError(t, err)
	SetupAPIRoutes(s, func(api *gin.RouterGroup) {
		api.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	})
	return s
}

func do(s *Server, method, target, host string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if host != "" {
		req.Host = host
	}
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func TestAllowedHosts(t *testing.T) {
	s := newTestServer(t, Options{AllowedHosts: `^(.+\.)?geogate\.local(:\d+)?$`})

	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/api/ping", "admin.geogate.local").Code)
	assert.Equal(t, http.StatusForbidden, do(s, http.MethodGet, "/api/ping", "evil.example.com").Code)
}

func TestInvalidHostPattern(t *testing.T) {
	_, err := NewServer(Options{AllowedHosts: "("})
	assert.Error(t, err)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Options{RateLimit: 2})

	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/api/ping", "").Code)
	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/api/ping", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(s, http.MethodGet, "/api/ping", "").Code)
}

func TestRateLimiterDropsExpiredClients(t *testing.T) {
	l := newRateLimiter(RateLimitConfig{WindowMs: time.Minute, MaxRequests: 1})
	start := time.Now()

	for i := 0; i < 100; i++ {
		assert.True(t, l.allow(fmt.Sprintf("10.0.0.%d", i), start))
	}
	assert.False(t, l.allow("10.0.0.1", start.Add(time.Second)))
	assert.Equal(t, 100, l.tracked())

	later := start.Add(2 * time.Minute)
	assert.True(t, l.allow("10.0.0.1", later))
	assert.Equal(t, 1, l.tracked())
}

func TestErrorHandlers(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := do(s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "La ruta solicitada no existe.")

	rec = do(s, http.MethodDelete, "/api/ping", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	s := newTestServer(t, Options{Metrics: m})

	do(s, http.MethodGet, "/api/ping", "")
	rec := do(s, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `geogate_http_requests_total{method="GET",route="/api/ping",status="200"} 1`)
}
