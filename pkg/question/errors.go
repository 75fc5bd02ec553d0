package question

import (
	"errors"
	"fmt"
)

// ErrInvalidAnswer is wrapped by every answer validation failure.
var ErrInvalidAnswer = errors.New("question: invalid answer")

// ConfigurationError reports malformed question or locale data. It is raised
// while building sets at startup, never mid-flow.
type ConfigurationError struct {
	Source string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Configf builds a ConfigurationError with a formatted reason.
func Configf(source, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Source: source, Reason: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}
