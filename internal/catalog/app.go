package catalog

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"CourseBrowser/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	// RequestTimeout bounds every request context. Zero disables it.
	RequestTimeout time.Duration

	MetricsEnabled bool
	MetricsToken   string
}

// NewHandler wraps the catalog routes with request ids, panic recovery,
// access logging and, when a registry is given, request metrics and /metrics.
func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID, kit.Recoverer, kit.Logging(log))
	if deps.RequestTimeout > 0 {
		r.Use(chimw.Timeout(deps.RequestTimeout))
	}

	if deps.Registry != nil {
		r.Use(kit.NewMetrics(deps.Registry).Middleware(deps.Service, kit.ChiRoutePatternOrPath))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		kit.WriteError(w, r, http.StatusNotFound, "no such route", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		kit.WriteError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	if deps.Registry != nil && deps.MetricsEnabled {
		r.With(kit.MetricsAuth(deps.MetricsToken)).
			Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry}))
	}

	r.Mount("/", s.Routes())
	return r
}
