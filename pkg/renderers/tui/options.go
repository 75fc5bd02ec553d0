package tui

import (
	"log/slog"
	"os"
)

// BackCommand typed into a free text prompt moves to the previous question.
const BackCommand = "<"

// Theme captures optional prefixes applied to printed messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithFileReader replaces how signature image paths are read.
func WithFileReader(read func(string) ([]byte, error)) Option {
	return func(r *Runner) {
		if read != nil {
			r.readFile = read
		}
	}
}

func defaultReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
