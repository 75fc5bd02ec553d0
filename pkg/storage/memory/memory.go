// Package memory is an in-process object and record store used for local
// runs, dry runs and tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-intake/pkg/submission"
)

// DefaultBaseURL prefixes public URLs for stored objects.
const DefaultBaseURL = "memory://"

// Object is a stored blob.
type Object struct {
	Key         string
	Data        []byte
	ContentType string
}

// Store keeps objects and records in maps guarded by a mutex.
type Store struct {
	mu        sync.Mutex
	baseURL   string
	objects   map[string]Object
	records   []submission.Record
	uploadErr error
	insertErr error
	uploads   int
	inserts   int
}

var (
	_ submission.ObjectStore = (*Store)(nil)
	_ submission.RecordStore = (*Store)(nil)
)

// Option configures a Store.
type Option func(*Store)

// WithBaseURL sets the prefix used by PublicURL.
func WithBaseURL(base string) Option {
	return func(s *Store) {
		if base != "" {
			s.baseURL = base
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		baseURL: DefaultBaseURL,
		objects: make(map[string]Object),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Upload stores data under key. Without upsert an existing key is an error.
func (s *Store) Upload(ctx context.Context, key string, data []byte, contentType string, upsert bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	if s.uploadErr != nil {
		return s.uploadErr
	}
	if _, exists := s.objects[key]; exists && !upsert {
		return &ConflictError{Key: key}
	}
	s.objects[key] = Object{Key: key, Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

// PublicURL joins the base URL and key.
func (s *Store) PublicURL(key string) string {
	if strings.HasSuffix(s.baseURL, "/") {
		return s.baseURL + strings.TrimPrefix(key, "/")
	}
	return s.baseURL + "/" + strings.TrimPrefix(key, "/")
}

// Insert appends a copy of the record.
func (s *Store) Insert(ctx context.Context, record submission.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.insertErr != nil {
		return s.insertErr
	}
	row := make(submission.Record, len(record))
	for k, v := range record {
		row[k] = v
	}
	s.records = append(s.records, row)
	return nil
}

// FailUploads makes every Upload return err until cleared with nil.
func (s *Store) FailUploads(err error) {
	s.mu.Lock()
	s.uploadErr = err
	s.mu.Unlock()
}

// FailInserts makes every Insert return err until cleared with nil.
func (s *Store) FailInserts(err error) {
	s.mu.Lock()
	s.insertErr = err
	s.mu.Unlock()
}

// Object returns the blob stored under key.
func (s *Store) Object(key string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Records returns the inserted rows.
func (s *Store) Records() []submission.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]submission.Record(nil), s.records...)
}

// Calls reports how many uploads and inserts were attempted.
func (s *Store) Calls() (uploads, inserts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads, s.inserts
}

// ConflictError is returned by Upload when the key exists and upsert is off.
type ConflictError struct {
	Key string
}

func (e *ConflictError) Error() string {
	return "memory: object already exists: " + e.Key
}
