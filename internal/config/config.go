// Package config resolves runtime settings from an optional YAML file, an
// optional .env file and the process environment, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-intake/pkg/question"
)

// Backend selects where submissions are written.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendSupabase Backend = "supabase"
	BackendPostgres Backend = "postgres"
)

// Config is the full runtime configuration.
type Config struct {
	Addr          string        `yaml:"addr"`
	PublicBaseURL string        `yaml:"publicBaseURL"`
	DefaultLocale string        `yaml:"defaultLocale"`
	Backend       Backend       `yaml:"backend"`
	Table         string        `yaml:"table"`
	Supabase      Supabase      `yaml:"supabase"`
	PostgresURL   string        `yaml:"postgresURL"`
	RedisURL      string        `yaml:"redisURL"`
	SessionTTL    time.Duration `yaml:"sessionTTL"`
	Submission    Submission    `yaml:"submission"`
	Log           Log           `yaml:"log"`
}

// Supabase holds the hosted backend credentials.
type Supabase struct {
	URL    string `yaml:"url"`
	Key    string `yaml:"key"`
	Bucket string `yaml:"bucket"`
}

// Submission tunes the pipeline.
type Submission struct {
	UploadTimeout   time.Duration `yaml:"uploadTimeout"`
	PersistTimeout  time.Duration `yaml:"persistTimeout"`
	SignaturePrefix string        `yaml:"signaturePrefix"`
}

// Log selects the slog handler.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Addr:       ":8080",
		Backend:    BackendMemory,
		Table:      "indemnity",
		SessionTTL: 24 * time.Hour,
		Supabase:   Supabase{Bucket: "signatures"},
		Submission: Submission{
			UploadTimeout:   15 * time.Second,
			PersistTimeout:  15 * time.Second,
			SignaturePrefix: "signatures",
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Env looks up a variable. os.LookupEnv satisfies it.
type Env func(key string) (string, bool)

// Load builds the configuration from the process environment. INTAKE_CONFIG
// names an optional YAML file; a .env file in the working directory is read
// when present without overriding variables already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	return LoadFrom(os.Getenv("INTAKE_CONFIG"), os.LookupEnv)
}

// LoadFrom applies the YAML file at path (if any) and then env on top of the
// defaults, and validates the result.
func LoadFrom(path string, env Env) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, &question.ConfigurationError{Source: path, Reason: "read failed", Err: err}
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, &question.ConfigurationError{Source: path, Reason: "malformed yaml", Err: err}
		}
	}
	if env != nil {
		if err := cfg.applyEnv(env); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(env Env) error {
	str := func(key string, target *string) {
		if v, ok := env(key); ok && strings.TrimSpace(v) != "" {
			*target = strings.TrimSpace(v)
		}
	}
	dur := func(key string, target *time.Duration) error {
		v, ok := env(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return &question.ConfigurationError{Source: key, Reason: "invalid duration", Err: err}
		}
		*target = d
		return nil
	}

	str("INTAKE_ADDR", &c.Addr)
	str("PUBLIC_BASE_URL", &c.PublicBaseURL)
	str("DEFAULT_LOCALE", &c.DefaultLocale)
	var backend string
	str("INTAKE_BACKEND", &backend)
	if backend != "" {
		c.Backend = Backend(strings.ToLower(backend))
	}
	str("INTAKE_TABLE", &c.Table)
	str("SUPABASE_URL", &c.Supabase.URL)
	str("SUPABASE_KEY", &c.Supabase.Key)
	str("SUPABASE_BUCKET", &c.Supabase.Bucket)
	str("POSTGRES_URL", &c.PostgresURL)
	str("REDIS_URL", &c.RedisURL)
	str("SIGNATURE_PREFIX", &c.Submission.SignaturePrefix)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if err := dur("SESSION_TTL", &c.SessionTTL); err != nil {
		return err
	}
	if err := dur("UPLOAD_TIMEOUT", &c.Submission.UploadTimeout); err != nil {
		return err
	}
	return dur("PERSIST_TIMEOUT", &c.Submission.PersistTimeout)
}

// Validate checks backend specific requirements.
func (c Config) Validate() error {
	const source = "config"
	if strings.TrimSpace(c.Addr) == "" {
		return question.Configf(source, "addr is required")
	}
	switch c.Backend {
	case BackendMemory:
	case BackendSupabase:
		if c.Supabase.URL == "" || c.Supabase.Key == "" {
			return question.Configf(source, "supabase backend needs SUPABASE_URL and SUPABASE_KEY")
		}
	case BackendPostgres:
		if c.PostgresURL == "" {
			return question.Configf(source, "postgres backend needs POSTGRES_URL")
		}
		if c.Supabase.URL == "" || c.Supabase.Key == "" {
			return question.Configf(source, "postgres backend stores signatures in supabase; set SUPABASE_URL and SUPABASE_KEY")
		}
	default:
		return question.Configf(source, "unknown backend %q", c.Backend)
	}
	if c.SessionTTL <= 0 {
		return question.Configf(source, "session ttl must be positive")
	}
	if c.Submission.UploadTimeout <= 0 || c.Submission.PersistTimeout <= 0 {
		return question.Configf(source, "submission timeouts must be positive")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return question.Configf(source, "unknown log format %q", c.Log.Format)
	}
	return nil
}
