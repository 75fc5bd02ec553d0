package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/question"
)

func mapEnv(values map[string]string) Env {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := LoadFrom("", mapEnv(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Fatalf("defaults changed (-want +got):\n%s", diff)
	}
}

func TestFileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intake.yaml")
	body := []byte("addr: \":9090\"\nbackend: supabase\nsupabase:\n  url: https://file.supabase.co\n  key: file-key\nsubmission:\n  uploadTimeout: 5s\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFrom(path, mapEnv(map[string]string{
		"SUPABASE_URL":    "https://env.supabase.co",
		"PERSIST_TIMEOUT": "3s",
		"LOG_FORMAT":      "json",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Addr != ":9090" || cfg.Backend != BackendSupabase {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Supabase.URL != "https://env.supabase.co" || cfg.Supabase.Key != "file-key" {
		t.Fatalf("env did not override file: %+v", cfg.Supabase)
	}
	if cfg.Submission.UploadTimeout != 5*time.Second || cfg.Submission.PersistTimeout != 3*time.Second {
		t.Fatalf("timeouts = %+v", cfg.Submission)
	}
	if cfg.Log.Format != "json" {
		t.Fatalf("log format = %q", cfg.Log.Format)
	}
}

func TestValidationFailures(t *testing.T) {
	cases := map[string]map[string]string{
		"supabase without key":   {"INTAKE_BACKEND": "supabase", "SUPABASE_URL": "https://x"},
		"postgres without dsn":   {"INTAKE_BACKEND": "postgres"},
		"unknown backend":        {"INTAKE_BACKEND": "sqlite"},
		"bad duration":           {"UPLOAD_TIMEOUT": "soon"},
		"negative ttl":           {"SESSION_TTL": "-1m"},
		"unknown log format":     {"LOG_FORMAT": "xml"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom("", mapEnv(env))
			if !question.IsConfigurationError(err) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	if !question.IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
