package question

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/goliatone/go-intake/pkg/answer"
)

// ValidateAnswer checks that v is acceptable for q. Errors wrap
// ErrInvalidAnswer.
func (q Question) ValidateAnswer(v answer.Value) error {
	if q.Type == TypeCheckbox {
		if _, ok := v.AsBool(); !ok {
			return invalid(q, "expected a yes/no answer")
		}
		return nil
	}

	text, ok := v.AsText()
	if !ok {
		return invalid(q, "expected a text answer")
	}
	if q.IsWelcome {
		return nil
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return invalid(q, "answer is required")
	}

	switch q.Type {
	case TypeEmail:
		addr, err := mail.ParseAddress(trimmed)
		if err != nil || addr.Address != trimmed {
			return invalid(q, "not a valid email address")
		}
	case TypeDate:
		if _, err := time.Parse(DateLayout, trimmed); err != nil {
			return invalid(q, "date must use YYYY-MM-DD")
		}
	case TypeSelect:
		if !containsOption(q.Options, trimmed) {
			return invalid(q, "unknown option")
		}
	case TypeSignature:
		if !strings.HasPrefix(trimmed, "data:") {
			return invalid(q, "signature must be a data URI")
		}
	}
	return nil
}

func containsOption(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}

func invalid(q Question, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidAnswer, q.ID, reason)
}
