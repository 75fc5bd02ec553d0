// Package web renders wizard views as server-side HTML pages with pongo2
// templates. Pages post back to the same URL; the signature step ships a
// small canvas script that submits a PNG data URI.
package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-intake/pkg/flow"
	"github.com/goliatone/go-intake/pkg/question"
	"github.com/goliatone/go-intake/pkg/sanitize"
	"github.com/goliatone/go-intake/pkg/wizard"
)

const (
	templateWelcome    = "welcome.html"
	templateQuestion   = "question.html"
	templateCompletion = "completion.html"
)

// Renderer turns wizard views into HTML.
type Renderer struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	files     fs.FS
	theme     Theme
	cssVars   string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme applies a resolved theme.
func WithTheme(t Theme) Option {
	return func(r *Renderer) {
		r.theme = t
	}
}

// WithTemplates replaces the bundled templates. The filesystem must provide
// layout.html, welcome.html, question.html and completion.html.
func WithTemplates(files fs.FS) Option {
	return func(r *Renderer) {
		if files != nil {
			r.files = files
		}
	}
}

// New parses every page template up front.
func New(opts ...Option) (*Renderer, error) {
	def, err := ResolveTheme(DefaultManifest(), "")
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		files:     TemplatesFS(),
		theme:     def,
		templates: make(map[string]*pongo2.Template),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	r.set = pongo2.NewSet("intake", pongo2.NewFSLoader(r.files))
	r.cssVars = r.theme.CSSVars()
	for _, name := range []string{templateWelcome, templateQuestion, templateCompletion} {
		tpl, err := r.set.FromFile(name)
		if err != nil {
			return nil, fmt.Errorf("web: load template %q: %w", name, err)
		}
		r.templates[name] = tpl
	}
	return r, nil
}

// Render writes the page for view. action is the URL forms post to.
func (r *Renderer) Render(w io.Writer, view wizard.View, action string) error {
	if r == nil {
		return errors.New("web: renderer is nil")
	}
	name, ctx := r.page(view, action)

	r.mu.RLock()
	tpl := r.templates[name]
	r.mu.RUnlock()

	var buf bytes.Buffer
	if err := tpl.ExecuteWriter(ctx, &buf); err != nil {
		return fmt.Errorf("web: execute %q: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) page(view wizard.View, action string) (string, pongo2.Context) {
	ctx := pongo2.Context{
		"locale":   view.Locale,
		"action":   action,
		"labels":   view.Labels,
		"css_vars": r.cssVars,
		"error":    view.Error,
	}

	if view.Completion != nil {
		ctx["title"] = view.Completion.Title
		ctx["completion"] = view.Completion
		return templateCompletion, ctx
	}

	q := view.Question
	if q == nil {
		q = &question.Question{}
	}
	ctx["title"] = q.Prompt
	ctx["question"] = q

	if view.Welcome() {
		ctx["languages"] = view.Languages
		return templateWelcome, ctx
	}

	chosen, isBool := view.Value.(bool)
	text, _ := view.Value.(string)
	if q.Type == question.TypeSignature {
		text = ""
	}
	ctx["value"] = text
	ctx["chose_yes"] = isBool && chosen
	ctx["chose_no"] = isBool && !chosen
	ctx["prompt_html"] = sanitize.PromptHTML(q.PromptHTML)
	ctx["question_type"] = string(q.Type)
	ctx["input_type"] = inputType(q.Type)
	ctx["show_back"] = view.ShowBack
	ctx["submitting"] = view.Phase == flow.PhaseSubmitting
	ctx["progress_percent"] = int(math.Round(view.Progress * 100))
	if q.Type == question.TypeSignature {
		ctx["signature_js"] = signatureScript
	}
	return templateQuestion, ctx
}

func inputType(t question.Type) string {
	switch t {
	case question.TypeEmail:
		return "email"
	case question.TypeDate:
		return "date"
	default:
		return "text"
	}
}
