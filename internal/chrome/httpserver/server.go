// Package httpserver assembles the chrome HTTP stack.
package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"finitefield.org/hanko-chrome/internal/chrome/breadcrumbs"
	"finitefield.org/hanko-chrome/internal/chrome/httpserver/api"
	custommw "finitefield.org/hanko-chrome/internal/chrome/httpserver/middleware"
	"finitefield.org/hanko-chrome/internal/chrome/httpx"
	"finitefield.org/hanko-chrome/internal/chrome/observability"
)

const (
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultIdleTimeout    = 60 * time.Second
	defaultRequestTimeout = 15 * time.Second
)

// Config holds runtime options for the chrome HTTP server.
type Config struct {
	Address      string
	BasePath     string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Logger   *zap.Logger
	Registry breadcrumbs.Source
	Resolver api.Resolver
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// New constructs the HTTP server with its middleware stack.
func New(cfg Config) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      NewHandler(cfg),
		ReadTimeout:  orDefault(cfg.ReadTimeout, defaultReadTimeout),
		WriteTimeout: orDefault(cfg.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:  orDefault(cfg.IdleTimeout, defaultIdleTimeout),
	}
}

// NewHandler builds the router served by New.
func NewHandler(cfg Config) http.Handler {
	logger := observability.OrNop(cfg.Logger)

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.RequestLogger(logger))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(defaultRequestTimeout))
	router.Use(custommw.Environment(cfg.Environment))

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	router.Get("/healthz", healthHandler(cfg.Registry))

	basePath := custommw.NormalizeBasePath(cfg.BasePath)
	mountChromeRoutes(router, basePath, api.NewHandlers(api.Dependencies{
		Registry: cfg.Registry,
		Resolver: cfg.Resolver,
	}))
	return router
}

func mountChromeRoutes(router chi.Router, base string, handlers *api.Handlers) {
	prefix := "/api/chrome"
	if base != "/" {
		prefix = base + prefix
	}

	router.Route(prefix, func(r chi.Router) {
		r.Use(custommw.HTMX())
		r.Use(custommw.RequestInfoMiddleware(base))
		r.Use(custommw.NoStore())

		handlers.Mount(r)
	})
}

type healthResponse struct {
	Status   string `json:"status"`
	Revision uint64 `json:"revision"`
}

func healthHandler(source breadcrumbs.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		if source != nil {
			resp.Revision = source.Snapshot().Revision
		}
		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}

func orDefault(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
