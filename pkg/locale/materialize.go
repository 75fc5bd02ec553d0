package locale

import (
	"fmt"
	"html"

	"github.com/goliatone/go-intake/pkg/question"
)

type optionSource int

const (
	optionsNone optionSource = iota
	optionsCountries
	optionsYesNo
)

type questionBlueprint struct {
	id             string
	typ            question.Type
	promptKey      string
	placeholderKey string
	options        optionSource
	condition      *question.Condition
	welcome        bool
	termsLink      bool
}

// blueprint fixes ids, order, types and gates. Only text varies by locale.
var blueprint = []questionBlueprint{
	{id: "welcome", typ: question.TypeText, promptKey: KeyWelcomeTitle, placeholderKey: KeyWelcomeSubtitle, welcome: true},
	{id: "fullName", typ: question.TypeText, promptKey: "questions.fullName", placeholderKey: "placeholders.fullName"},
	{id: "email", typ: question.TypeEmail, promptKey: "questions.email", placeholderKey: "placeholders.email"},
	{id: "nationality", typ: question.TypeSelect, promptKey: "questions.nationality", placeholderKey: "placeholders.nationality", options: optionsCountries},
	{id: "birthday", typ: question.TypeDate, promptKey: "questions.birthday", placeholderKey: "placeholders.birthday"},
	{id: "idNumber", typ: question.TypeText, promptKey: "questions.idNumber", placeholderKey: "placeholders.idNumber"},
	{id: "insurance", typ: question.TypeText, promptKey: "questions.insurance", placeholderKey: "placeholders.insurance"},
	{id: "hasChildren", typ: question.TypeCheckbox, promptKey: "questions.hasChildren", options: optionsYesNo},
	{
		id: "childrenNames", typ: question.TypeText,
		promptKey: "questions.childrenNames", placeholderKey: "placeholders.childrenNames",
		condition: &question.Condition{DependsOn: "hasChildren", ShowIf: true},
	},
	{id: "termsAccepted", typ: question.TypeCheckbox, promptKey: "questions.termsAccepted", options: optionsYesNo, termsLink: true},
	{id: "signature", typ: question.TypeSignature, promptKey: "questions.signature"},
}

// Materialize builds the question set for locale. It is pure: the same
// locale always yields an identical set and every locale yields the same
// shape. Unknown locales fail with a configuration error.
func Materialize(c *Catalog, locale string) (question.Set, error) {
	if c == nil {
		return nil, question.Configf("locale", "nil catalog")
	}
	if !c.Has(locale) {
		return nil, question.Configf("locale", "unknown locale %q", locale)
	}

	set := make(question.Set, 0, len(blueprint))
	for _, bp := range blueprint {
		q := question.Question{
			ID:        bp.id,
			Type:      bp.typ,
			Prompt:    c.T(locale, bp.promptKey),
			IsWelcome: bp.welcome,
		}
		if bp.placeholderKey != "" {
			q.Placeholder = c.T(locale, bp.placeholderKey)
		}
		switch bp.options {
		case optionsCountries:
			q.Options = c.Countries()
		case optionsYesNo:
			q.Options = []string{c.T(locale, KeyYes), c.T(locale, KeyNo)}
		}
		if bp.condition != nil {
			cond := *bp.condition
			q.Conditional = &cond
		}
		if bp.termsLink && c.termsURL != "" {
			q.PromptHTML = termsPrompt(c, locale, q.Prompt)
		}
		set = append(set, q)
	}

	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("locale: materialize %s: %w", locale, err)
	}
	return set, nil
}

// MustMaterialize panics on error. Intended for the bundled catalog.
func MustMaterialize(c *Catalog, locale string) question.Set {
	set, err := Materialize(c, locale)
	if err != nil {
		panic(err)
	}
	return set
}

func termsPrompt(c *Catalog, locale, prompt string) string {
	label := c.T(locale, KeyViewClick) + " " + c.T(locale, KeyViewHere) + " " + c.T(locale, KeyViewToView)
	return fmt.Sprintf(
		`<p>%s</p><a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`,
		html.EscapeString(prompt),
		html.EscapeString(c.termsURL),
		html.EscapeString(label),
	)
}
