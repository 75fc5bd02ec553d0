package flow

import "github.com/goliatone/go-intake/pkg/answer"

// State is the navigation half of a session.
type State struct {
	Index       int    `json:"index"`
	Locale      string `json:"locale"`
	Completed   bool   `json:"completed"`
	Submitting  bool   `json:"submitting"`
	SubmitError bool   `json:"submitError"`
}

// Snapshot is the immutable unit the reducer consumes and produces.
type Snapshot struct {
	State   State        `json:"state"`
	Answers answer.Store `json:"answers"`
}

// Phase summarises which of the mutually exclusive display modes applies.
type Phase string

const (
	PhaseAsking     Phase = "asking"
	PhaseSubmitting Phase = "submitting"
	PhaseFailed     Phase = "failed"
	PhaseCompleted  Phase = "completed"
)

// Phase reports the authoritative display mode.
func (s State) Phase() Phase {
	switch {
	case s.Completed:
		return PhaseCompleted
	case s.Submitting:
		return PhaseSubmitting
	case s.SubmitError:
		return PhaseFailed
	default:
		return PhaseAsking
	}
}

// Effect tells the caller what to do after a transition.
type Effect int

const (
	EffectNone Effect = iota
	// EffectSubmit means the sequence is exhausted and the submission
	// pipeline must run once.
	EffectSubmit
)

func (e Effect) String() string {
	if e == EffectSubmit {
		return "submit"
	}
	return "none"
}
