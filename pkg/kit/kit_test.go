package kit

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(2, time.Minute)
	h := l.Middleware(http.HandlerFunc(okHandler))

	call := func(remote, xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/views", nil)
		req.RemoteAddr = remote
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000", ""))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001", ""))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002", ""))

	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000", ""))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1003", "192.168.1.9, 10.0.0.1"))
}

func TestIPRateLimiter_WindowExpires(t *testing.T) {
	l := NewIPRateLimiter(1, time.Minute)
	now := time.Now()

	assert.False(t, l.recordAndCheck("a", now, now.Add(-time.Minute)))
	assert.True(t, l.recordAndCheck("a", now.Add(time.Second), now.Add(time.Second-time.Minute)))

	later := now.Add(2 * time.Minute)
	assert.False(t, l.recordAndCheck("a", later, later.Add(-time.Minute)))
}

func TestMetricsAuth(t *testing.T) {
	h := MetricsAuth("tok")(http.HandlerFunc(okHandler))

	for header, want := range map[string]int{
		"":           http.StatusForbidden,
		"Bearer bad": http.StatusForbidden,
		"tok":        http.StatusForbidden,
		"Bearer tok": http.StatusOK,
	} {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, header)
	}

	locked := MetricsAuth("")(http.HandlerFunc(okHandler))
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	locked.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware("catalog", ChiRoutePatternOrPath))
	r.Get("/courses/{id}", okHandler)

	for _, p := range []string{"/courses/MAT-6-1", "/courses/PHY-7-2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("catalog", "GET", "/courses/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("catalog", "GET", unmatchedRoute, "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("catalog", "debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = NewLogger("catalog", "")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.DebugLevel))

	_, err = NewLogger("catalog", "loud")
	assert.Error(t, err)
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, http.StatusNotFound, "not found", map[string]any{"id": "x"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.JSONEq(t, `{"error":"not found","status":404,"details":{"id":"x"}}`, rec.Body.String())
}

func TestWriteJSON_UnencodableValue(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, http.StatusOK, map[string]any{"f": func() {}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestIPRateLimiter_SweepDropsIdleClients(t *testing.T) {
	l := NewIPRateLimiter(5, time.Minute)
	old := time.Now().Add(-time.Hour)
	for i := 0; i < sweepAt; i++ {
		l.hits[strconv.Itoa(i)] = []time.Time{old}
	}

	now := time.Now()
	assert.False(t, l.recordAndCheck("fresh", now, now.Add(-time.Minute)))
	assert.Len(t, l.hits, 1)
}
