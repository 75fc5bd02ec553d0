package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-intake/pkg/answer"
	"github.com/goliatone/go-intake/pkg/flow"
	"github.com/goliatone/go-intake/pkg/locale"
	"github.com/goliatone/go-intake/pkg/question"
	"github.com/goliatone/go-intake/pkg/sanitize"
	"github.com/goliatone/go-intake/pkg/submission"
)

// Submitter runs the submission pipeline. *submission.Pipeline satisfies it.
type Submitter interface {
	Submit(ctx context.Context, in submission.Input) (submission.Result, error)
}

// Recorder receives session level counters.
type Recorder interface {
	SessionStarted(locale string)
	AnswerRecorded(questionID string)
}

// Service coordinates sessions.
type Service struct {
	catalog    *locale.Catalog
	sets       map[string]question.Set
	controller *flow.Controller
	store      SessionStore
	submitter  Submitter
	logger     *slog.Logger
	recorder   Recorder
	newID      func() string
	now        func() time.Time
	claimer    SubmitClaimer
	locks      *keyedMutex
	inflight   singleflight.Group

	defaultLocale string
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

// WithSessionIDs overrides uuid based session ids.
func WithSessionIDs(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaultLocale sets the locale used when Start is called without one.
// Codes the catalog does not know are ignored.
func WithDefaultLocale(code string) Option {
	return func(s *Service) {
		if s.catalog.Has(code) {
			s.defaultLocale = code
		}
	}
}

// NewService materialises every locale of catalog up front so configuration
// problems surface at startup. All locales must share one shape.
func NewService(catalog *locale.Catalog, store SessionStore, submitter Submitter, opts ...Option) (*Service, error) {
	if catalog == nil {
		return nil, errors.New("wizard: catalog is required")
	}
	if store == nil {
		return nil, errors.New("wizard: session store is required")
	}
	if submitter == nil {
		return nil, errors.New("wizard: submitter is required")
	}

	sets := make(map[string]question.Set)
	base, err := locale.Materialize(catalog, catalog.DefaultLocale())
	if err != nil {
		return nil, err
	}
	for _, code := range catalog.Codes() {
		set, err := locale.Materialize(catalog, code)
		if err != nil {
			return nil, err
		}
		if !base.SameShape(set) {
			return nil, question.Configf("translations/"+code, "question set shape differs from %s", catalog.DefaultLocale())
		}
		sets[code] = set
	}

	controller, err := flow.NewController(base, flow.WithLocales(catalog.Codes()...))
	if err != nil {
		return nil, err
	}

	s := &Service{
		catalog:    catalog,
		sets:       sets,
		controller: controller,
		store:      store,
		submitter:  submitter,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:      uuid.NewString,
		now:        time.Now,
		locks:      newKeyedMutex(),

		defaultLocale: catalog.DefaultLocale(),
	}
	if claimer, ok := store.(SubmitClaimer); ok {
		s.claimer = claimer
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Catalog exposes the translation catalog presenters share.
func (s *Service) Catalog() *locale.Catalog { return s.catalog }

// Questions returns the localised set for code, falling back to the default.
func (s *Service) Questions(code string) question.Set {
	return s.sets[s.catalog.Resolve(code)].Clone()
}

// Start creates a session. An empty locale selects the default.
func (s *Service) Start(ctx context.Context, code string) (View, error) {
	if code == "" {
		code = s.defaultLocale
	}
	if !s.catalog.Has(code) {
		return View{}, fmt.Errorf("%w: %s", flow.ErrUnknownLocale, code)
	}
	now := s.now()
	sess := Session{
		ID:        s.newID(),
		Snapshot:  s.controller.Start(code),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return View{}, fmt.Errorf("wizard: save session: %w", err)
	}
	if s.recorder != nil {
		s.recorder.SessionStarted(code)
	}
	s.logger.Info("session started", "session_id", sess.ID, "locale", code)
	return s.view(sess), nil
}

// View returns the current view of a session.
func (s *Service) View(ctx context.Context, id string) (View, error) {
	sess, err := s.store.Load(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.view(sess), nil
}

// Back moves to the previous visible question.
func (s *Service) Back(ctx context.Context, id string) (View, error) {
	sess, _, err := s.apply(ctx, id, flow.Back{})
	if err != nil {
		return View{}, err
	}
	return s.view(sess), nil
}

// SelectLocale switches language while on the welcome step.
func (s *Service) SelectLocale(ctx context.Context, id, code string) (View, error) {
	sess, _, err := s.apply(ctx, id, flow.SelectLocale{Locale: code})
	if err != nil {
		return View{}, err
	}
	return s.view(sess), nil
}

// Answer records value for the current question. When it was the last
// visible question the submission pipeline runs before Answer returns; its
// failure is reported through the view, not the error.
func (s *Service) Answer(ctx context.Context, id string, value answer.Value) (View, error) {
	if err := checkMarkup(value); err != nil {
		return View{}, err
	}

	release := s.locks.Lock(id)
	step, err := s.reduceAnswer(ctx, id, value)
	var unclaim func()
	if err == nil && step.effect == flow.EffectSubmit && s.claimer != nil {
		unclaim, err = s.claimer.ClaimSubmit(ctx, id)
		if err == nil {
			// Another process may have moved the session before the claim
			// was granted, so the answer is reduced again under the claim.
			step, err = s.reduceAnswer(ctx, id, value)
			if err != nil || step.effect != flow.EffectSubmit {
				unclaim()
				unclaim = nil
			}
		}
	}
	if err == nil && step.effect == flow.EffectSubmit {
		step.next, _, err = s.controller.Reduce(step.next, flow.SubmitStarted{})
	}
	var sess Session
	if err == nil {
		sess, err = s.save(ctx, step.sess, step.next)
	}
	release()
	if err != nil {
		if unclaim != nil {
			unclaim()
		}
		return View{}, err
	}
	if s.recorder != nil {
		s.recorder.AnswerRecorded(step.questionID)
	}

	if step.effect != flow.EffectSubmit {
		return s.view(sess), nil
	}
	if unclaim != nil {
		defer unclaim()
	}
	return s.submit(ctx, sess)
}

type answerStep struct {
	sess       Session
	questionID string
	next       flow.Snapshot
	effect     flow.Effect
}

func (s *Service) reduceAnswer(ctx context.Context, id string, value answer.Value) (answerStep, error) {
	sess, err := s.store.Load(ctx, id)
	if err != nil {
		return answerStep{}, err
	}
	current, _ := s.controller.Current(sess.Snapshot)
	s.logger.Debug("session event", "session_id", id, "event", flow.EventName(flow.Answer{}), "question_id", current.ID)
	next, effect, err := s.controller.Reduce(sess.Snapshot, flow.Answer{Value: value})
	if err != nil {
		return answerStep{}, err
	}
	return answerStep{sess: sess, questionID: current.ID, next: next, effect: effect}, nil
}

func (s *Service) submit(ctx context.Context, sess Session) (View, error) {
	input := submission.Input{
		Answers:    sess.Snapshot.Answers,
		Locale:     sess.Snapshot.State.Locale,
		VisibleIDs: s.controller.VisibleIDs(sess.Snapshot.Answers),
	}
	// The pipeline outlives a cancelled request so the session never stays
	// stuck in the submitting phase; the pipeline's own timeouts bound it.
	runCtx := context.WithoutCancel(ctx)
	_, runErr, _ := s.inflight.Do(sess.ID, func() (any, error) {
		return s.submitter.Submit(runCtx, input)
	})

	outcome := flow.Event(flow.SubmitSucceeded{})
	if runErr != nil {
		outcome = flow.SubmitFailed{}
		s.logger.Error("submission failed",
			"session_id", sess.ID,
			"stage", submission.StageOf(runErr),
			"error", runErr,
		)
	}

	final, _, err := s.apply(runCtx, sess.ID, outcome)
	if err != nil {
		return View{}, err
	}
	return s.view(final), nil
}

func (s *Service) apply(ctx context.Context, id string, event flow.Event) (Session, flow.Effect, error) {
	release := s.locks.Lock(id)
	defer release()

	sess, err := s.store.Load(ctx, id)
	if err != nil {
		return Session{}, flow.EffectNone, err
	}
	s.logger.Debug("session event", "session_id", id, "event", flow.EventName(event))
	next, effect, err := s.controller.Reduce(sess.Snapshot, event)
	if err != nil {
		return sess, flow.EffectNone, err
	}
	sess, err = s.save(ctx, sess, next)
	return sess, effect, err
}

func (s *Service) save(ctx context.Context, sess Session, snap flow.Snapshot) (Session, error) {
	sess.Snapshot = snap
	sess.UpdatedAt = s.now()
	if err := s.store.Save(ctx, sess); err != nil {
		return Session{}, fmt.Errorf("wizard: save session: %w", err)
	}
	return sess, nil
}

// checkMarkup rejects free text carrying markup. Accepted answers are stored
// exactly as given; signature payloads and booleans are not screened.
func checkMarkup(v answer.Value) error {
	text, ok := v.AsText()
	if !ok || strings.HasPrefix(text, "data:") {
		return nil
	}
	if sanitize.HasMarkup(text) {
		return fmt.Errorf("%w: markup is not allowed", flow.ErrInvalidAnswer)
	}
	return nil
}

func (s *Service) view(sess Session) View {
	snap := sess.Snapshot
	code := s.catalog.Resolve(snap.State.Locale)
	t := func(key string) string { return s.catalog.T(code, key) }

	v := View{
		ID:       sess.ID,
		Locale:   code,
		Phase:    snap.State.Phase(),
		Index:    snap.State.Index,
		Total:    s.controller.Len(),
		Progress: s.controller.Progress(snap),
		Labels: Labels{
			Back:     t(locale.KeyBack),
			Next:     t(locale.KeyNext),
			Clear:    t(locale.KeyClear),
			Yes:      t(locale.KeyYes),
			No:       t(locale.KeyNo),
			Start:    t(locale.KeyWelcomeStart),
			Language: t(locale.KeyLanguageLabel),
		},
	}

	if snap.State.Completed {
		name, _ := snap.Answers.Get("fullName")
		v.Completion = &Completion{
			Title:            s.catalog.CompletionTitle(code, name.String()),
			Subtitle:         t(locale.KeyCompletionSubtitle),
			WelcomePackURL:   s.catalog.WelcomePackURL(),
			WelcomePackLabel: t(locale.KeyCompletionWelcome),
		}
		return v
	}

	set := s.sets[code]
	if snap.State.Index >= 0 && snap.State.Index < len(set) {
		q := set[snap.State.Index].Clone()
		v.Question = &q
		v.ShowBack = !q.IsWelcome
		if q.IsWelcome {
			v.Languages = s.catalog.Languages()
			v.Labels.Subtitle = q.Placeholder
		}
		if stored, ok := snap.Answers.Get(q.ID); ok {
			v.Value = stored.Interface()
		}
	}
	if snap.State.Submitting {
		v.Labels.Next = SubmittingLabel
	}
	if snap.State.SubmitError {
		v.Error = t(locale.KeySubmitError)
	}
	return v
}
