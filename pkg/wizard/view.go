package wizard

import (
	"github.com/goliatone/go-intake/pkg/flow"
	"github.com/goliatone/go-intake/pkg/locale"
	"github.com/goliatone/go-intake/pkg/question"
)

// SubmittingLabel replaces the next label while a submission is in flight.
const SubmittingLabel = "..."

// View is what presenters render. It never carries pipeline diagnostics.
type View struct {
	ID         string             `json:"id"`
	Locale     string             `json:"locale"`
	Phase      flow.Phase         `json:"phase"`
	Index      int                `json:"index"`
	Total      int                `json:"total"`
	Progress   float64            `json:"progress"`
	Question   *question.Question `json:"question,omitempty"`
	Value      any                `json:"value,omitempty"`
	ShowBack   bool               `json:"showBack"`
	Error      string             `json:"error,omitempty"`
	Labels     Labels             `json:"labels"`
	Languages  []locale.Language  `json:"languages,omitempty"`
	Completion *Completion        `json:"completion,omitempty"`
}

// Labels are the localised control captions for the current view.
type Labels struct {
	Back     string `json:"back"`
	Next     string `json:"next"`
	Clear    string `json:"clear"`
	Yes      string `json:"yes"`
	No       string `json:"no"`
	Start    string `json:"start"`
	Language string `json:"language"`
	Subtitle string `json:"subtitle,omitempty"`
}

// Completion is the thank-you screen content.
type Completion struct {
	Title            string `json:"title"`
	Subtitle         string `json:"subtitle"`
	WelcomePackURL   string `json:"welcomePackURL"`
	WelcomePackLabel string `json:"welcomePackLabel"`
}

// Welcome reports whether the view shows the welcome step.
func (v View) Welcome() bool {
	return v.Question != nil && v.Question.IsWelcome
}
