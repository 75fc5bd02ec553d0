// Package app wires configuration into a running wizard: storage backends,
// session persistence, metrics and the submission pipeline.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/goliatone/go-intake/internal/config"
	"github.com/goliatone/go-intake/internal/httpapi"
	"github.com/goliatone/go-intake/internal/metrics"
	"github.com/goliatone/go-intake/internal/sessions"
	"github.com/goliatone/go-intake/pkg/locale"
	"github.com/goliatone/go-intake/pkg/renderers/web"
	"github.com/goliatone/go-intake/pkg/storage/memory"
	"github.com/goliatone/go-intake/pkg/storage/postgres"
	"github.com/goliatone/go-intake/pkg/storage/supabase"
	"github.com/goliatone/go-intake/pkg/submission"
	"github.com/goliatone/go-intake/pkg/wizard"
)

const sweepInterval = time.Minute

// App is a fully wired wizard.
type App struct {
	Config   config.Config
	Catalog  *locale.Catalog
	Service  *wizard.Service
	Pipeline *submission.Pipeline
	Registry *prometheus.Registry
	Logger   *slog.Logger

	// Records is set when the memory backend is active.
	Records *memory.Store

	closers []func()
}

// Build constructs the App. Background work started here stops when ctx is
// cancelled; Close releases connections.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		return nil, errors.New("app: logger is required")
	}
	catalog, err := locale.Default()
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Catalog:  catalog,
		Registry: prometheus.NewRegistry(),
		Logger:   logger,
	}
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(a.Registry)

	objects, records, err := a.storage(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Pipeline, err = submission.New(objects, records,
		submission.WithLogger(logger),
		submission.WithObserver(m),
		submission.WithTimeouts(cfg.Submission.UploadTimeout, cfg.Submission.PersistTimeout),
		submission.WithKeyPrefix(cfg.Submission.SignaturePrefix),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	store, err := a.sessions(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Service, err = wizard.NewService(catalog, store, a.Pipeline,
		wizard.WithLogger(logger),
		wizard.WithRecorder(m),
		wizard.WithDefaultLocale(cfg.DefaultLocale),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Handler returns the HTTP surface: JSON API, pages and ops endpoints.
func (a *App) Handler() (http.Handler, error) {
	pages, err := web.New()
	if err != nil {
		return nil, err
	}
	h := httpapi.New(a.Service, pages,
		httpapi.WithLogger(a.Logger),
		httpapi.WithMetrics(a.Registry),
		httpapi.WithOpenAPI(submission.OpenAPIDocument()),
	)
	return h.Router(), nil
}

// Close releases backend connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) storage(ctx context.Context) (submission.ObjectStore, submission.RecordStore, error) {
	cfg := a.Config
	switch cfg.Backend {
	case config.BackendMemory:
		var opts []memory.Option
		if base := strings.TrimRight(cfg.PublicBaseURL, "/"); base != "" {
			opts = append(opts, memory.WithBaseURL(base+"/"))
		}
		store := memory.New(opts...)
		a.Records = store
		a.Logger.Warn("using in-memory storage; submissions are lost on restart")
		return store, store, nil

	case config.BackendSupabase:
		client, err := a.supabase()
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil

	case config.BackendPostgres:
		client, err := a.supabase()
		if err != nil {
			return nil, nil, err
		}
		pool, err := postgres.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, pool.Close)
		store, err := postgres.New(pool, cfg.Table)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		return client, store, nil

	default:
		return nil, nil, fmt.Errorf("app: unknown backend %q", cfg.Backend)
	}
}

func (a *App) supabase() (*supabase.Client, error) {
	return supabase.New(supabase.Config{
		URL:    a.Config.Supabase.URL,
		APIKey: a.Config.Supabase.Key,
		Bucket: a.Config.Supabase.Bucket,
		Table:  a.Config.Table,
	})
}

func (a *App) sessions(ctx context.Context) (wizard.SessionStore, error) {
	if a.Config.RedisURL != "" {
		client, err := sessions.Dial(ctx, a.Config.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		return sessions.NewRedis(client, a.Config.SessionTTL), nil
	}
	store := sessions.NewMemory(a.Config.SessionTTL)
	go store.RunSweeper(ctx, sweepInterval)
	return store, nil
}
