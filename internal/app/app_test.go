package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-intake/internal/config"
	"github.com/goliatone/go-intake/internal/logging"
	"github.com/goliatone/go-intake/pkg/answer"
)

func TestBuildMemoryBackend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Defaults()
	cfg.DefaultLocale = "fr"
	a, err := Build(ctx, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer a.Close()

	if a.Records == nil {
		t.Fatalf("memory backend should expose its record store")
	}
	view, err := a.Service.Start(ctx, "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if view.Locale != "fr" {
		t.Fatalf("locale = %q, want fr", view.Locale)
	}
	if _, err := a.Service.Answer(ctx, view.ID, answer.Text("started")); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	h, err := a.Handler()
	if err != nil {
		t.Fatalf("Handler: %v", err)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
}

func TestBuildRequiresLogger(t *testing.T) {
	if _, err := Build(context.Background(), config.Defaults(), nil); err == nil {
		t.Fatalf("expected error without logger")
	}
}

func TestBuildSupabaseBackend(t *testing.T) {
	cfg := config.Defaults()
	cfg.Backend = config.BackendSupabase
	cfg.Supabase.URL = "https://project.supabase.co"
	cfg.Supabase.Key = "anon"

	a, err := Build(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer a.Close()
	if a.Records != nil {
		t.Fatalf("supabase backend must not expose a memory store")
	}
}
