package flow

import (
	"fmt"

	"github.com/goliatone/go-intake/pkg/answer"
	"github.com/goliatone/go-intake/pkg/question"
	"github.com/goliatone/go-intake/pkg/visibility"
)

// Controller navigates a validated question set. It holds no session state.
type Controller struct {
	questions question.Set
	evaluator visibility.Evaluator
	locales   map[string]struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithEvaluator overrides the visibility evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(c *Controller) {
		if evaluator != nil {
			c.evaluator = evaluator
		}
	}
}

// WithLocales restricts SelectLocale to the given codes. Without it any
// non-empty code is accepted.
func WithLocales(codes ...string) Option {
	return func(c *Controller) {
		if len(codes) == 0 {
			return
		}
		c.locales = make(map[string]struct{}, len(codes))
		for _, code := range codes {
			c.locales[code] = struct{}{}
		}
	}
}

// NewController validates the set and returns a controller over a private
// copy of it.
func NewController(questions question.Set, options ...Option) (*Controller, error) {
	if err := questions.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		questions: questions.Clone(),
		evaluator: visibility.Default,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Questions returns a copy of the structural question set.
func (c *Controller) Questions() question.Set {
	return c.questions.Clone()
}

// Len is the total number of questions, visible or not.
func (c *Controller) Len() int {
	return len(c.questions)
}

// Start returns the initial snapshot for a new session.
func (c *Controller) Start(locale string) Snapshot {
	return Snapshot{
		State:   State{Locale: locale},
		Answers: answer.NewStore(nil),
	}
}

// Current returns the question at the snapshot index.
func (c *Controller) Current(s Snapshot) (question.Question, bool) {
	if s.State.Index < 0 || s.State.Index >= len(c.questions) {
		return question.Question{}, false
	}
	return c.questions[s.State.Index], true
}

// Progress is index / total question count. Hidden questions still count in
// the denominator.
func (c *Controller) Progress(s Snapshot) float64 {
	if s.State.Completed {
		return 1
	}
	if len(c.questions) == 0 {
		return 0
	}
	return float64(s.State.Index) / float64(len(c.questions))
}

// IsVisible evaluates one question against committed answers.
func (c *Controller) IsVisible(q question.Question, answers answer.Store) bool {
	return c.evaluator.Visible(q, visibility.NewContext(answers))
}

// VisibleIDs lists the ids visible under the given answers, in order.
func (c *Controller) VisibleIDs(answers answer.Store) []string {
	ctx := visibility.NewContext(answers)
	out := make([]string, 0, len(c.questions))
	for _, q := range c.questions {
		if c.evaluator.Visible(q, ctx) {
			out = append(out, q.ID)
		}
	}
	return out
}

// Next scans forward from index+1 and returns the first visible index. The
// pending (id, value) pair shadows the committed answers so a question gated
// on the answer just given is evaluated against it. ok is false when the end
// of the set is reached.
func (c *Controller) Next(index int, answers answer.Store, pendingID string, pending answer.Value) (int, bool) {
	ctx := visibility.NewContext(answers)
	if pendingID != "" {
		ctx = ctx.WithPending(pendingID, pending.Interface())
	}
	for next := index + 1; next < len(c.questions); next++ {
		if c.evaluator.Visible(c.questions[next], ctx) {
			return next, true
		}
	}
	return len(c.questions), false
}

// Prev returns the greatest visible index below index, or 0.
func (c *Controller) Prev(index int, answers answer.Store) int {
	if index <= 0 {
		return 0
	}
	ctx := visibility.NewContext(answers)
	prev := index - 1
	for prev > 0 && !c.evaluator.Visible(c.questions[prev], ctx) {
		prev--
	}
	return prev
}

// Reduce applies e to s. It never mutates s; on error the returned snapshot
// equals s.
func (c *Controller) Reduce(s Snapshot, e Event) (Snapshot, Effect, error) {
	switch ev := e.(type) {
	case Answer:
		return c.advance(s, ev.Value)
	case Back:
		return c.retreat(s)
	case SelectLocale:
		return c.selectLocale(s, ev.Locale)
	case SubmitStarted:
		if s.State.Completed {
			return s, EffectNone, ErrCompleted
		}
		if s.State.Submitting {
			return s, EffectNone, ErrSubmissionInFlight
		}
		next := s
		next.State.Submitting = true
		next.State.SubmitError = false
		return next, EffectNone, nil
	case SubmitSucceeded:
		if !s.State.Submitting {
			return s, EffectNone, ErrNotSubmitting
		}
		next := s
		next.State.Submitting = false
		next.State.SubmitError = false
		next.State.Completed = true
		return next, EffectNone, nil
	case SubmitFailed:
		if !s.State.Submitting {
			return s, EffectNone, ErrNotSubmitting
		}
		next := s
		next.State.Submitting = false
		next.State.SubmitError = true
		return next, EffectNone, nil
	default:
		return s, EffectNone, fmt.Errorf("%w: %T", ErrUnknownEvent, e)
	}
}

func (c *Controller) advance(s Snapshot, value answer.Value) (Snapshot, Effect, error) {
	if err := guardActive(s.State); err != nil {
		return s, EffectNone, err
	}
	current, ok := c.Current(s)
	if !ok {
		return s, EffectNone, fmt.Errorf("flow: index %d out of range", s.State.Index)
	}
	if err := current.ValidateAnswer(value); err != nil {
		return s, EffectNone, err
	}

	next := s
	next.Answers = s.Answers.With(current.ID, value)
	next.State.SubmitError = false

	idx, found := c.Next(s.State.Index, next.Answers, current.ID, value)
	if found {
		next.State.Index = idx
		return next, EffectNone, nil
	}
	// Exhausted: stay on the last question until the pipeline reports back.
	return next, EffectSubmit, nil
}

func (c *Controller) retreat(s Snapshot) (Snapshot, Effect, error) {
	if err := guardActive(s.State); err != nil {
		return s, EffectNone, err
	}
	if s.State.Index == 0 {
		return s, EffectNone, nil
	}
	next := s
	next.State.Index = c.Prev(s.State.Index, s.Answers)
	next.State.SubmitError = false
	return next, EffectNone, nil
}

func (c *Controller) selectLocale(s Snapshot, locale string) (Snapshot, Effect, error) {
	if err := guardActive(s.State); err != nil {
		return s, EffectNone, err
	}
	if locale == "" {
		return s, EffectNone, ErrUnknownLocale
	}
	if c.locales != nil {
		if _, ok := c.locales[locale]; !ok {
			return s, EffectNone, fmt.Errorf("%w: %s", ErrUnknownLocale, locale)
		}
	}
	current, ok := c.Current(s)
	if !ok || !current.IsWelcome {
		return s, EffectNone, ErrLocaleLocked
	}
	next := s
	next.State.Locale = locale
	return next, EffectNone, nil
}

func guardActive(st State) error {
	if st.Completed {
		return ErrCompleted
	}
	if st.Submitting {
		return ErrSubmissionInFlight
	}
	return nil
}
