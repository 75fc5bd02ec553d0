package flow

import "github.com/goliatone/go-intake/pkg/answer"

// Event is a discrete user or pipeline action fed to the reducer.
type Event interface {
	eventName() string
}

// Answer records a value for the current question and advances.
type Answer struct {
	Value answer.Value
}

// Back moves to the previous visible question.
type Back struct{}

// SelectLocale switches the session language. Only allowed on the welcome
// question.
type SelectLocale struct {
	Locale string
}

// SubmitStarted marks the submission pipeline as in flight.
type SubmitStarted struct{}

// SubmitSucceeded completes the session.
type SubmitSucceeded struct{}

// SubmitFailed surfaces the generic error state and keeps the session on the
// last question so the respondent can retry.
type SubmitFailed struct{}

func (Answer) eventName() string          { return "answer" }
func (Back) eventName() string            { return "back" }
func (SelectLocale) eventName() string    { return "select_locale" }
func (SubmitStarted) eventName() string   { return "submit_started" }
func (SubmitSucceeded) eventName() string { return "submit_succeeded" }
func (SubmitFailed) eventName() string    { return "submit_failed" }

// EventName returns a stable identifier for logging.
func EventName(e Event) string {
	if e == nil {
		return "nil"
	}
	return e.eventName()
}
