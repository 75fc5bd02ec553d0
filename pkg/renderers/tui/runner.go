// Package tui walks a wizard session in the terminal. Each view maps to one
// prompt; free text prompts accept BackCommand, choice prompts carry a back
// entry.
package tui

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goliatone/go-intake/pkg/answer"
	"github.com/goliatone/go-intake/pkg/flow"
	"github.com/goliatone/go-intake/pkg/locale"
	"github.com/goliatone/go-intake/pkg/question"
	"github.com/goliatone/go-intake/pkg/wizard"
)

// Wizard is the session surface the runner drives.
type Wizard interface {
	Catalog() *locale.Catalog
	Start(ctx context.Context, locale string) (wizard.View, error)
	Answer(ctx context.Context, id string, value answer.Value) (wizard.View, error)
	Back(ctx context.Context, id string) (wizard.View, error)
	SelectLocale(ctx context.Context, id, locale string) (wizard.View, error)
}

// Runner drives one session to completion.
type Runner struct {
	wizard   Wizard
	driver   PromptDriver
	theme    Theme
	logger   *slog.Logger
	readFile func(string) ([]byte, error)
}

// New constructs a Runner with the survey driver on stdout.
func New(w Wizard, options ...Option) (*Runner, error) {
	if w == nil {
		return nil, errors.New("tui: wizard is required")
	}
	r := &Runner{
		wizard:   w,
		driver:   NewSurveyDriver(nil),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		readFile: defaultReadFile,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

// Run starts a session in code and prompts until it completes. The final
// view is returned so callers can print or inspect it.
func (r *Runner) Run(ctx context.Context, code string) (wizard.View, error) {
	view, err := r.wizard.Start(ctx, code)
	if err != nil {
		return wizard.View{}, err
	}
	r.logger.Debug("tui session started", "session_id", view.ID, "locale", view.Locale)

	for view.Completion == nil {
		if err := ctx.Err(); err != nil {
			return view, err
		}
		if view.Error != "" {
			r.warn(ctx, view.Error)
		}

		next, err := r.step(ctx, view)
		switch {
		case err == nil:
			view = next
		case errors.Is(err, flow.ErrInvalidAnswer):
			r.warn(ctx, r.wizard.Catalog().T(view.Locale, locale.KeyInvalidAnswer))
		default:
			return view, err
		}
	}

	r.info(ctx, view.Completion.Title)
	r.info(ctx, view.Completion.Subtitle)
	if view.Completion.WelcomePackURL != "" {
		r.info(ctx, fmt.Sprintf("%s: %s", view.Completion.WelcomePackLabel, view.Completion.WelcomePackURL))
	}
	return view, nil
}

func (r *Runner) step(ctx context.Context, view wizard.View) (wizard.View, error) {
	q := view.Question
	if q == nil {
		return view, fmt.Errorf("tui: view %s has no question", view.ID)
	}
	if view.Welcome() {
		return r.welcome(ctx, view)
	}

	switch q.Type {
	case question.TypeCheckbox:
		return r.choice(ctx, view, []string{view.Labels.Yes, view.Labels.No}, func(idx int) answer.Value {
			return answer.Bool(idx == 0)
		})
	case question.TypeSelect:
		return r.choice(ctx, view, q.Options, func(idx int) answer.Value {
			return answer.Text(q.Options[idx])
		})
	case question.TypeSignature:
		return r.signature(ctx, view)
	default:
		text, back, err := r.text(ctx, view, "")
		if err != nil {
			return view, err
		}
		if back {
			return r.wizard.Back(ctx, view.ID)
		}
		return r.wizard.Answer(ctx, view.ID, answer.Text(text))
	}
}

func (r *Runner) welcome(ctx context.Context, view wizard.View) (wizard.View, error) {
	r.info(ctx, view.Question.Prompt)
	if view.Labels.Subtitle != "" {
		r.info(ctx, view.Labels.Subtitle)
	}

	if len(view.Languages) > 1 {
		names := make([]string, len(view.Languages))
		current := 0
		for i, lang := range view.Languages {
			names[i] = lang.Name
			if lang.Code == view.Locale {
				current = i
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      view.Labels.Language,
			Options:      names,
			DefaultIndex: current,
		})
		if err != nil {
			return view, err
		}
		if idx < 0 || idx >= len(names) {
			return view, ErrNoSelection
		}
		if code := view.Languages[idx].Code; code != view.Locale {
			view, err = r.wizard.SelectLocale(ctx, view.ID, code)
			if err != nil {
				return view, err
			}
		}
	}
	return r.wizard.Answer(ctx, view.ID, answer.Text("started"))
}

func (r *Runner) choice(ctx context.Context, view wizard.View, options []string, pick func(int) answer.Value) (wizard.View, error) {
	q := view.Question
	labels := append([]string(nil), options...)
	if view.ShowBack {
		labels = append(labels, "← "+view.Labels.Back)
	}

	current := -1
	switch v := view.Value.(type) {
	case bool:
		if q.Type == question.TypeCheckbox {
			current = 1
			if v {
				current = 0
			}
		}
	case string:
		current = indexOf(options, v)
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      r.prompt(q),
		Options:      labels,
		DefaultIndex: current,
		Help:         q.Placeholder,
		PageSize:     12,
	})
	if err != nil {
		return view, err
	}
	switch {
	case idx >= 0 && idx < len(options):
		return r.wizard.Answer(ctx, view.ID, pick(idx))
	case view.ShowBack && idx == len(options):
		return r.wizard.Back(ctx, view.ID)
	default:
		return view, ErrNoSelection
	}
}

func (r *Runner) signature(ctx context.Context, view wizard.View) (wizard.View, error) {
	path, back, err := r.text(ctx, view, "PNG, JPEG, WebP or SVG file")
	if err != nil {
		return view, err
	}
	if back {
		return r.wizard.Back(ctx, view.ID)
	}
	uri, err := r.signatureURI(path)
	if err != nil {
		r.warn(ctx, err.Error())
		return view, nil
	}
	return r.wizard.Answer(ctx, view.ID, answer.Text(uri))
}

// signatureURI accepts a data URI as is, otherwise reads the image at path.
func (r *Runner) signatureURI(path string) (string, error) {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "data:") {
		return path, nil
	}
	if path == "" {
		return "", nil
	}
	data, err := r.readFile(path)
	if err != nil {
		return "", fmt.Errorf("tui: read signature: %w", err)
	}
	return EncodeDataURI(data, path), nil
}

// EncodeDataURI wraps image bytes in a base64 data URI. SVG is detected by
// extension since content sniffing reports it as text.
func EncodeDataURI(data []byte, name string) string {
	contentType := http.DetectContentType(data)
	if strings.HasSuffix(strings.ToLower(name), ".svg") {
		contentType = "image/svg+xml"
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func (r *Runner) text(ctx context.Context, view wizard.View, help string) (string, bool, error) {
	q := view.Question
	def, _ := view.Value.(string)
	if q.Type == question.TypeSignature {
		def = ""
	}
	if help == "" {
		help = q.Placeholder
	}
	if view.ShowBack {
		help = strings.TrimSpace(help + fmt.Sprintf(" (%s: %s)", view.Labels.Back, BackCommand))
	}

	response, err := r.driver.Input(ctx, InputConfig{
		Message: r.prompt(q),
		Default: def,
		Help:    help,
	})
	if err != nil {
		return "", false, err
	}
	if view.ShowBack && strings.TrimSpace(response) == BackCommand {
		return "", true, nil
	}
	return response, false, nil
}

func (r *Runner) prompt(q *question.Question) string {
	if q.PromptHTML == "" {
		return q.Prompt
	}
	terms := r.wizard.Catalog().TermsURL()
	if terms == "" {
		return q.Prompt
	}
	return fmt.Sprintf("%s (%s)", q.Prompt, terms)
}

func (r *Runner) info(ctx context.Context, msg string) {
	if msg == "" {
		return
	}
	if err := r.driver.Info(ctx, r.theme.InfoPrefix+msg); err != nil {
		r.logger.Warn("tui info failed", "error", err)
	}
}

func (r *Runner) warn(ctx context.Context, msg string) {
	if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
		r.logger.Warn("tui info failed", "error", err)
	}
}
