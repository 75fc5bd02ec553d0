// Package httpapi exposes the wizard over HTTP: a JSON API for script
// clients, server rendered pages for browsers, and operational endpoints.
package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-intake/pkg/answer"
	"github.com/goliatone/go-intake/pkg/locale"
	"github.com/goliatone/go-intake/pkg/wizard"
)

// MaxBodyBytes bounds request bodies. Signature data URIs dominate the size.
const MaxBodyBytes = 5 << 20

// Service is the wizard surface the handlers drive.
type Service interface {
	Catalog() *locale.Catalog
	Start(ctx context.Context, locale string) (wizard.View, error)
	View(ctx context.Context, id string) (wizard.View, error)
	Answer(ctx context.Context, id string, value answer.Value) (wizard.View, error)
	Back(ctx context.Context, id string) (wizard.View, error)
	SelectLocale(ctx context.Context, id, locale string) (wizard.View, error)
}

// PageRenderer writes a view as an HTML page. *web.Renderer satisfies it.
type PageRenderer interface {
	Render(w io.Writer, view wizard.View, action string) error
}

// Handler serves the intake routes.
type Handler struct {
	service  Service
	pages    PageRenderer
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	openapi  []byte
	timeout  time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMetrics exposes gatherer on /metrics.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(h *Handler) {
		h.gatherer = gatherer
	}
}

// WithOpenAPI serves doc on /openapi.yaml.
func WithOpenAPI(doc []byte) Option {
	return func(h *Handler) {
		h.openapi = doc
	}
}

// WithTimeout bounds each request. Submissions run detached from it.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// New builds a Handler. pages may be nil to serve only the JSON API.
func New(service Service, pages PageRenderer, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		pages:   pages,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Router returns a chi router with every route mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(h.timeout))
	h.Register(r)
	return r
}

// Register mounts the routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	if len(h.openapi) > 0 {
		r.Get("/openapi.yaml", h.handleOpenAPI)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/languages", h.handleLanguages)
		r.Post("/sessions", h.handleStart)
		r.Get("/sessions/{id}", h.handleGet)
		r.Post("/sessions/{id}/answer", h.handleAnswer)
		r.Post("/sessions/{id}/back", h.handleBack)
		r.Put("/sessions/{id}/locale", h.handleLocale)
	})

	if h.pages != nil {
		r.Get("/", h.handleNewPage)
		r.Get("/s/{id}", h.handlePage)
		r.Post("/s/{id}", h.handlePagePost)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(h.openapi)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
