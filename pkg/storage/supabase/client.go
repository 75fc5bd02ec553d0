// Package supabase talks to a Supabase project over its REST surface: the
// storage API for signature objects and PostgREST for the intake row.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-intake/pkg/submission"
)

const (
	DefaultBucket = "signatures"
	DefaultTable  = "indemnity"

	maxErrorBody = 4 << 10
)

// Config holds the project endpoint and credentials.
type Config struct {
	URL    string
	APIKey string
	Bucket string
	Table  string
}

// Client implements submission.ObjectStore and submission.RecordStore.
type Client struct {
	base   *url.URL
	apiKey string
	bucket string
	table  string
	http   *http.Client
}

var (
	_ submission.ObjectStore = (*Client)(nil)
	_ submission.RecordStore = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New validates cfg and returns a client.
func New(cfg Config, opts ...Option) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if raw == "" {
		return nil, errors.New("supabase: url is required")
	}
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("supabase: invalid url %q", cfg.URL)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("supabase: api key is required")
	}

	c := &Client{
		base:   base,
		apiKey: cfg.APIKey,
		bucket: firstNonEmpty(cfg.Bucket, DefaultBucket),
		table:  firstNonEmpty(cfg.Table, DefaultTable),
		http:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Table is the PostgREST table records are inserted into.
func (c *Client) Table() string { return c.table }

// Upload stores data at <bucket>/<key>.
func (c *Client) Upload(ctx context.Context, key string, data []byte, contentType string, upsert bool) error {
	endpoint := c.endpoint("storage", "v1", "object", c.bucket, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("supabase: build upload request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	if upsert {
		req.Header.Set("x-upsert", "true")
	}
	return c.do(req, "upload")
}

// PublicURL is the public object URL for key. It performs no request.
func (c *Client) PublicURL(key string) string {
	return c.endpoint("storage", "v1", "object", "public", c.bucket, key)
}

// Insert posts one row to the configured table.
func (c *Client) Insert(ctx context.Context, record submission.Record) error {
	body, err := json.Marshal([]submission.Record{record})
	if err != nil {
		return fmt.Errorf("supabase: encode record: %w", err)
	}
	endpoint := c.endpoint("rest", "v1", c.table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("supabase: build insert request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")
	return c.do(req, "insert")
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

func (c *Client) do(req *http.Request, op string) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return newAPIError(op, resp.StatusCode, payload)
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, seg := range segments {
		for _, part := range strings.Split(strings.Trim(seg, "/"), "/") {
			if part != "" {
				escaped = append(escaped, url.PathEscape(part))
			}
		}
	}
	return c.base.String() + "/" + strings.Join(escaped, "/")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
