package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/submission"
)

type capturedRequest struct {
	Method      string
	Path        string
	APIKey      string
	Auth        string
	ContentType string
	Upsert      string
	Prefer      string
	Body        string
}

func newTestClient(t *testing.T, status int, response string) (*Client, *[]capturedRequest) {
	t.Helper()
	var seen []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = append(seen, capturedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			APIKey:      r.Header.Get("apikey"),
			Auth:        r.Header.Get("Authorization"),
			ContentType: r.Header.Get("Content-Type"),
			Upsert:      r.Header.Get("x-upsert"),
			Prefer:      r.Header.Get("Prefer"),
			Body:        string(body),
		})
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{URL: srv.URL + "/", APIKey: "anon-key"}, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, &seen
}

func TestUploadSendsObject(t *testing.T) {
	client, seen := newTestClient(t, http.StatusOK, `{"Key":"signatures/signatures/a.png"}`)

	if err := client.Upload(context.Background(), "signatures/a.png", []byte("png"), "image/png", true); err != nil {
		t.Fatalf("upload: %v", err)
	}

	want := []capturedRequest{{
		Method:      http.MethodPost,
		Path:        "/storage/v1/object/signatures/signatures/a.png",
		APIKey:      "anon-key",
		Auth:        "Bearer anon-key",
		ContentType: "image/png",
		Upsert:      "true",
		Body:        "png",
	}}
	if diff := cmp.Diff(want, *seen); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestPublicURL(t *testing.T) {
	client, err := New(Config{URL: "https://proj.supabase.co", APIKey: "k"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got := client.PublicURL("signatures/abc_1.png")
	want := "https://proj.supabase.co/storage/v1/object/public/signatures/signatures/abc_1.png"
	if got != want {
		t.Fatalf("public url = %q, want %q", got, want)
	}
}

func TestInsertPostsSingleRow(t *testing.T) {
	client, seen := newTestClient(t, http.StatusCreated, "")
	record := submission.Record{"full_name": "Jane", "children_names": nil, "has_children": false}

	if err := client.Insert(context.Background(), record); err != nil {
		t.Fatalf("insert: %v", err)
	}

	req := (*seen)[0]
	if req.Path != "/rest/v1/indemnity" || req.Prefer != "return=minimal" {
		t.Fatalf("unexpected request %+v", req)
	}
	var rows []map[string]any
	if err := json.Unmarshal([]byte(req.Body), &rows); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := []map[string]any{{"full_name": "Jane", "children_names": nil, "has_children": false}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorResponses(t *testing.T) {
	client, _ := newTestClient(t, http.StatusConflict, `{"code":"23505","message":"duplicate key"}`)

	err := client.Insert(context.Background(), submission.Record{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Code != "23505" || apiErr.Message != "duplicate key" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
	if apiErr.Temporary() {
		t.Fatalf("conflict should not be temporary")
	}
}

func TestNewValidatesConfig(t *testing.T) {
	cases := map[string]Config{
		"missing url": {APIKey: "k"},
		"bad url":     {URL: "not a url", APIKey: "k"},
		"missing key": {URL: "https://proj.supabase.co"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := New(cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
