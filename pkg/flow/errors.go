package flow

import (
	"errors"

	"github.com/goliatone/go-intake/pkg/question"
)

var (
	// ErrInvalidAnswer aliases the question package sentinel so callers only
	// need one import to classify validation failures.
	ErrInvalidAnswer = question.ErrInvalidAnswer
	// ErrSubmissionInFlight rejects events while the pipeline is running.
	ErrSubmissionInFlight = errors.New("flow: submission in flight")
	// ErrCompleted rejects events after a successful submission.
	ErrCompleted = errors.New("flow: session completed")
	// ErrLocaleLocked rejects language changes after the welcome step.
	ErrLocaleLocked = errors.New("flow: locale can only change on the welcome step")
	// ErrUnknownLocale rejects languages the controller was not built for.
	ErrUnknownLocale = errors.New("flow: unknown locale")
	// ErrUnknownEvent rejects event types the reducer does not handle.
	ErrUnknownEvent = errors.New("flow: unknown event")
	// ErrNotSubmitting rejects pipeline outcomes with no attempt in flight.
	ErrNotSubmitting = errors.New("flow: no submission in flight")
)
