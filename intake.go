// Package intake is the quick start entry point: it wires the question
// catalog, flow controller, submission pipeline and presenters with in-memory
// defaults that callers replace through options.
package intake

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-intake/internal/httpapi"
	"github.com/goliatone/go-intake/internal/sessions"
	"github.com/goliatone/go-intake/pkg/answer"
	"github.com/goliatone/go-intake/pkg/locale"
	"github.com/goliatone/go-intake/pkg/question"
	"github.com/goliatone/go-intake/pkg/renderers/web"
	"github.com/goliatone/go-intake/pkg/storage/memory"
	"github.com/goliatone/go-intake/pkg/submission"
	"github.com/goliatone/go-intake/pkg/wizard"
)

// Question aliases question.Question for callers that only import the root.
type Question = question.Question

// View is the render-ready state of one session.
type View = wizard.View

// Value is a string or boolean answer.
type Value = answer.Value

// Service drives sessions.
type Service = wizard.Service

// Record is the persisted intake row.
type Record = submission.Record

type settings struct {
	catalog  *locale.Catalog
	objects  submission.ObjectStore
	records  submission.RecordStore
	sessions wizard.SessionStore
	logger   *slog.Logger
	ttl      time.Duration
}

// Option configures NewService.
type Option func(*settings)

// WithCatalog replaces the embedded translations.
func WithCatalog(c *locale.Catalog) Option {
	return func(s *settings) { s.catalog = c }
}

// WithObjectStore sets where signature images are uploaded.
func WithObjectStore(store submission.ObjectStore) Option {
	return func(s *settings) { s.objects = store }
}

// WithRecordStore sets where intake records are inserted.
func WithRecordStore(store submission.RecordStore) Option {
	return func(s *settings) { s.records = store }
}

// WithSessionStore replaces the in-process session map.
func WithSessionStore(store wizard.SessionStore) Option {
	return func(s *settings) { s.sessions = store }
}

// WithLogger sets the logger shared by the pipeline and the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// NewService builds a wizard. Stores default to memory.
func NewService(options ...Option) (*Service, error) {
	s := settings{ttl: 24 * time.Hour}
	for _, opt := range options {
		if opt != nil {
			opt(&s)
		}
	}
	if s.catalog == nil {
		c, err := locale.Default()
		if err != nil {
			return nil, err
		}
		s.catalog = c
	}
	if s.objects == nil || s.records == nil {
		store := memory.New()
		if s.objects == nil {
			s.objects = store
		}
		if s.records == nil {
			s.records = store
		}
	}
	if s.sessions == nil {
		s.sessions = sessions.NewMemory(s.ttl)
	}

	pipeline, err := submission.New(s.objects, s.records, submission.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	return wizard.NewService(s.catalog, s.sessions, pipeline, wizard.WithLogger(s.logger))
}

// NewHandler serves svc over HTTP with the bundled pages and JSON API.
func NewHandler(svc *Service, logger *slog.Logger) (http.Handler, error) {
	if svc == nil {
		return nil, errors.New("intake: service is required")
	}
	pages, err := web.New()
	if err != nil {
		return nil, err
	}
	h := httpapi.New(svc, pages,
		httpapi.WithLogger(logger),
		httpapi.WithOpenAPI(submission.OpenAPIDocument()),
	)
	return h.Router(), nil
}
