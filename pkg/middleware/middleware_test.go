package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/optionrisk/pkg/config"
	"github.com/wyfcoding/optionrisk/pkg/logger"
	"github.com/wyfcoding/optionrisk/pkg/metrics"
	"github.com/wyfcoding/optionrisk/pkg/ratelimit"
	"github.com/wyfcoding/optionrisk/pkg/response"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	return r
}

func do(r *gin.Engine, method, target string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	r.ServeHTTP(w, req)
	return w
}

func TestGinLoggingMiddleware_PropagatesIDs(t *testing.T) {
	r := newEngine(GinLoggingMiddleware())
	var traceID, requestID any
	r.GET("/ping", func(c *gin.Context) {
		traceID = c.Request.Context().Value(logger.TraceIDKey)
		requestID = c.Request.Context().Value(logger.RequestIDKey)
		c.Status(http.StatusOK)
	})

	w := do(r, http.MethodGet, "/ping", http.Header{TraceHeader: []string{"trace-abc"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trace-abc", traceID)
	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, w.Header().Get(RequestIDHeader))
}

func TestGinRecoveryMiddleware(t *testing.T) {
	r := newEngine(GinLoggingMiddleware(), GinRecoveryMiddleware())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := do(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
	assert.Contains(t, w.Body.String(), w.Header().Get(RequestIDHeader))
}

func TestGinCORSMiddleware_Preflight(t *testing.T) {
	r := newEngine(GinCORSMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodOptions, "/x", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestGinMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.New()
	r := newEngine(GinMetricsMiddleware(m))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, http.MethodGet, "/items/1", nil)
	do(r, http.MethodGet, "/items/2", nil)
	do(r, http.MethodGet, "/nowhere", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/items/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, QPS: 1, Burst: 1}
	r := newEngine(RateLimitMiddleware(ratelimit.NewLocalRateLimiter(), cfg))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := do(r, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := do(r, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	var body response.Response
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, http.StatusTooManyRequests, body.Code)
	assert.Equal(t, "too many requests", body.Message)
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	r := newEngine(RateLimitMiddleware(ratelimit.NewLocalRateLimiter(), config.RateLimitConfig{}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
	}
}

func TestRateLimitMiddleware_FailsOpen(t *testing.T) {
	// QPS 为 0 时限流器返回错误，请求应放行
	cfg := config.RateLimitConfig{Enabled: true, QPS: 0, Burst: 1}
	r := newEngine(RateLimitMiddleware(ratelimit.NewLocalRateLimiter(), cfg))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
}
