package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-intake/pkg/answer"
)

const (
	// DefaultTimeout bounds each network step when no override is set.
	DefaultTimeout = 15 * time.Second
	// DefaultKeyPrefix namespaces signature objects.
	DefaultKeyPrefix = "signatures"
)

// ObjectStore stores signature blobs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string, upsert bool) error
	PublicURL(key string) string
}

// RecordStore persists a record as a single row.
type RecordStore interface {
	Insert(ctx context.Context, record Record) error
}

// IDGenerator produces a submission id per attempt.
type IDGenerator func() string

// Outcome classifies a finished attempt.
type Outcome string

const (
	OutcomeSuccess      Outcome = "success"
	OutcomeUploadError  Outcome = "upload_error"
	OutcomePersistError Outcome = "persist_error"
)

// Observer is notified once per attempt.
type Observer interface {
	ObserveSubmission(outcome Outcome, stage Stage, elapsed time.Duration)
}

// ObserverFunc adapts a function into an Observer.
type ObserverFunc func(outcome Outcome, stage Stage, elapsed time.Duration)

func (fn ObserverFunc) ObserveSubmission(outcome Outcome, stage Stage, elapsed time.Duration) {
	fn(outcome, stage, elapsed)
}

// Input is a completed answer store plus the context it was collected in.
type Input struct {
	Answers answer.Store
	Locale  string
	// VisibleIDs lists the questions visible at submit time. Answers to
	// other questions are dropped from the record.
	VisibleIDs []string
}

// Result describes a persisted submission.
type Result struct {
	SubmissionID string
	SignatureKey string
	SignatureURL string
	Record       Record
}

// Pipeline uploads the signature then inserts the record.
type Pipeline struct {
	objects        ObjectStore
	records        RecordStore
	logger         *slog.Logger
	observer       Observer
	newID          IDGenerator
	now            func() time.Time
	uploadTimeout  time.Duration
	persistTimeout time.Duration
	keyPrefix      string
	validate       bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(p *Pipeline) {
		p.observer = observer
	}
}

func WithIDGenerator(gen IDGenerator) Option {
	return func(p *Pipeline) {
		if gen != nil {
			p.newID = gen
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithTimeouts overrides the upload and insert deadlines. Non-positive
// values keep the default.
func WithTimeouts(upload, persist time.Duration) Option {
	return func(p *Pipeline) {
		if upload > 0 {
			p.uploadTimeout = upload
		}
		if persist > 0 {
			p.persistTimeout = persist
		}
	}
}

func WithKeyPrefix(prefix string) Option {
	return func(p *Pipeline) {
		p.keyPrefix = strings.Trim(prefix, "/")
	}
}

// WithSchemaValidation toggles the IntakeRecord check before insert.
func WithSchemaValidation(enabled bool) Option {
	return func(p *Pipeline) {
		p.validate = enabled
	}
}

// New builds a pipeline over the given stores.
func New(objects ObjectStore, records RecordStore, opts ...Option) (*Pipeline, error) {
	if objects == nil {
		return nil, errors.New("submission: object store is required")
	}
	if records == nil {
		return nil, errors.New("submission: record store is required")
	}
	p := &Pipeline{
		objects:        objects,
		records:        records,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:          uuid.NewString,
		now:            time.Now,
		uploadTimeout:  DefaultTimeout,
		persistTimeout: DefaultTimeout,
		keyPrefix:      DefaultKeyPrefix,
		validate:       true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Submit runs one attempt. Every attempt gets a fresh submission id. The
// record is only inserted after the upload succeeded.
func (p *Pipeline) Submit(ctx context.Context, in Input) (res Result, err error) {
	start := p.now()
	res.SubmissionID = p.newID()
	logger := p.logger.With("submission_id", res.SubmissionID, "locale", in.Locale)

	defer func() {
		p.finish(logger, start, err)
	}()

	raw := ""
	if v, ok := in.Answers.Get(SignatureAnswerID); ok {
		raw, _ = v.AsText()
	}
	data, contentType, err := DecodeDataURI(raw)
	if err != nil {
		return res, &UploadError{Stage: StageDecode, Err: err}
	}
	ext, ok := imageExtension(contentType)
	if !ok {
		return res, &UploadError{Stage: StageDecode, Err: fmt.Errorf("unsupported signature media type %q", contentType)}
	}

	res.SignatureKey = p.objectKey(res.SubmissionID, start, ext)
	if err := p.upload(ctx, res.SignatureKey, data, contentType); err != nil {
		return res, &UploadError{Stage: StageUpload, Key: res.SignatureKey, Err: err}
	}
	res.SignatureURL = p.objects.PublicURL(res.SignatureKey)
	logger.Debug("signature uploaded", "key", res.SignatureKey, "bytes", len(data))

	res.Record = BuildRecord(in.Answers, in.Locale, res.SignatureURL, in.VisibleIDs)
	if p.validate {
		if err := ValidateRecord(res.Record); err != nil {
			return res, &PersistError{Stage: StageValidate, Err: err}
		}
	}

	if err := p.insert(ctx, res.Record); err != nil {
		return res, &PersistError{Stage: StageInsert, Err: err}
	}
	return res, nil
}

func (p *Pipeline) upload(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, p.uploadTimeout)
	defer cancel()
	return p.objects.Upload(ctx, key, data, contentType, true)
}

func (p *Pipeline) insert(ctx context.Context, record Record) error {
	ctx, cancel := context.WithTimeout(ctx, p.persistTimeout)
	defer cancel()
	return p.records.Insert(ctx, record)
}

func (p *Pipeline) objectKey(id string, at time.Time, ext string) string {
	name := fmt.Sprintf("%s_%d%s", id, at.UnixMilli(), ext)
	if p.keyPrefix == "" {
		return name
	}
	return p.keyPrefix + "/" + name
}

func (p *Pipeline) finish(logger *slog.Logger, start time.Time, err error) {
	elapsed := p.now().Sub(start)
	outcome := OutcomeSuccess
	stage := StageOf(err)
	switch {
	case err == nil:
		logger.Info("submission stored", "elapsed", elapsed)
	case IsUploadError(err):
		outcome = OutcomeUploadError
		logger.Error("submission failed", "stage", stage, "error", err)
	default:
		outcome = OutcomePersistError
		logger.Error("submission failed", "stage", stage, "error", err)
	}
	if p.observer != nil {
		p.observer.ObserveSubmission(outcome, stage, elapsed)
	}
}

func imageExtension(contentType string) (string, bool) {
	switch contentType {
	case "image/png":
		return ".png", true
	case "image/jpeg":
		return ".jpg", true
	case "image/webp":
		return ".webp", true
	case "image/svg+xml":
		return ".svg", true
	default:
		return "", false
	}
}
