package locale

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-intake/pkg/question"
)

const (
	catalogFile      = "catalog.yaml"
	countriesFile    = "countries.yaml"
	translationsGlob = "translations/*.yaml"
)

// ErrMissingTranslation is returned by Translate when a key is absent from
// both the requested and the default locale.
var ErrMissingTranslation = errors.New("locale: missing translation")

// Translator resolves localised strings. Params may be a single
// map[string]any or alternating name/value pairs and replace `{name}`
// placeholders in the message.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Language is a selectable session language.
type Language struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Catalog is the parsed set of translations plus the shared option lists.
type Catalog struct {
	defaultLocale  string
	termsURL       string
	welcomePackURL string
	languages      []Language
	messages       map[string]map[string]string
	countries      []string
}

type catalogFileDoc struct {
	DefaultLocale  string `yaml:"defaultLocale"`
	TermsURL       string `yaml:"termsURL"`
	WelcomePackURL string `yaml:"welcomePackURL"`
}

type countriesDoc struct {
	Countries []string `yaml:"countries"`
}

type translationDoc struct {
	Code     string         `yaml:"code"`
	Name     string         `yaml:"name"`
	Messages map[string]any `yaml:"messages"`
}

// Load parses catalog.yaml, countries.yaml and translations/*.yaml from fsys
// and checks that every locale defines every key the question set needs.
func Load(fsys fs.FS) (*Catalog, error) {
	if fsys == nil {
		return nil, question.Configf("locale", "no catalog filesystem provided")
	}

	var meta catalogFileDoc
	if err := decodeFile(fsys, catalogFile, &meta); err != nil {
		return nil, err
	}
	var countries countriesDoc
	if err := decodeFile(fsys, countriesFile, &countries); err != nil {
		return nil, err
	}

	files, err := fs.Glob(fsys, translationsGlob)
	if err != nil {
		return nil, &question.ConfigurationError{Source: translationsGlob, Reason: "glob failed", Err: err}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, question.Configf(translationsGlob, "no translation files found")
	}

	catalog := &Catalog{
		defaultLocale:  strings.TrimSpace(meta.DefaultLocale),
		termsURL:       strings.TrimSpace(meta.TermsURL),
		welcomePackURL: strings.TrimSpace(meta.WelcomePackURL),
		messages:       make(map[string]map[string]string, len(files)),
		countries:      cleanList(countries.Countries),
	}

	for _, file := range files {
		var doc translationDoc
		if err := decodeFile(fsys, file, &doc); err != nil {
			return nil, err
		}
		code := strings.TrimSpace(doc.Code)
		if code == "" {
			code = strings.TrimSuffix(path.Base(file), path.Ext(file))
		}
		if _, dup := catalog.messages[code]; dup {
			return nil, question.Configf(file, "duplicate locale %q", code)
		}
		flat := make(map[string]string)
		if err := flatten("", doc.Messages, flat); err != nil {
			return nil, &question.ConfigurationError{Source: file, Reason: "invalid messages", Err: err}
		}
		name := strings.TrimSpace(doc.Name)
		if name == "" {
			name = code
		}
		catalog.messages[code] = flat
		catalog.languages = append(catalog.languages, Language{Code: code, Name: name})
	}

	if err := catalog.validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

func decodeFile(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return &question.ConfigurationError{Source: name, Reason: "read failed", Err: err}
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return &question.ConfigurationError{Source: name, Reason: "malformed yaml", Err: err}
	}
	return nil
}

func flatten(prefix string, in map[string]any, out map[string]string) error {
	for key, raw := range in {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := raw.(type) {
		case string:
			out[full] = v
		case map[string]any:
			if err := flatten(full, v, out); err != nil {
				return err
			}
		case nil:
			out[full] = ""
		default:
			out[full] = fmt.Sprint(v)
		}
	}
	return nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (c *Catalog) validate() error {
	if c.defaultLocale == "" {
		return question.Configf(catalogFile, "defaultLocale is required")
	}
	if _, ok := c.messages[c.defaultLocale]; !ok {
		return question.Configf(catalogFile, "default locale %q has no translation file", c.defaultLocale)
	}
	if len(c.countries) == 0 {
		return question.Configf(countriesFile, "country list is empty")
	}
	for _, lang := range c.languages {
		messages := c.messages[lang.Code]
		for _, key := range RequiredKeys() {
			if strings.TrimSpace(messages[key]) == "" {
				return question.Configf("translations/"+lang.Code, "missing key %q", key)
			}
		}
	}
	return nil
}

// DefaultLocale is the fallback language code.
func (c *Catalog) DefaultLocale() string { return c.defaultLocale }

// TermsURL links the terms document shown with the consent question.
func (c *Catalog) TermsURL() string { return c.termsURL }

// WelcomePackURL is the link offered on the completion screen.
func (c *Catalog) WelcomePackURL() string { return c.welcomePackURL }

// Languages lists the available languages in file order.
func (c *Catalog) Languages() []Language {
	return append([]Language(nil), c.languages...)
}

// Codes lists the available language codes.
func (c *Catalog) Codes() []string {
	out := make([]string, len(c.languages))
	for i, lang := range c.languages {
		out[i] = lang.Code
	}
	return out
}

// Has reports whether locale has a translation file.
func (c *Catalog) Has(locale string) bool {
	_, ok := c.messages[locale]
	return ok
}

// Resolve returns locale when known, otherwise the default locale.
func (c *Catalog) Resolve(locale string) string {
	if c.Has(locale) {
		return locale
	}
	return c.defaultLocale
}

// Countries returns the nationality options.
func (c *Catalog) Countries() []string {
	return append([]string(nil), c.countries...)
}

// Translate implements Translator. Unknown locales and missing keys fall back
// to the default locale before failing.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	msg, ok := c.messages[locale][key]
	if !ok {
		msg, ok = c.messages[c.defaultLocale][key]
	}
	if !ok {
		return key, fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
	}
	return interpolate(msg, args...), nil
}

// T is Translate without the error, returning the key when missing.
func (c *Catalog) T(locale, key string, args ...any) string {
	msg, _ := c.Translate(locale, key, args...)
	return msg
}

// CompletionTitle is the thank-you heading with the respondent name.
func (c *Catalog) CompletionTitle(locale, fullName string) string {
	return c.T(locale, KeyCompletionTitle, "name", fullName)
}

func interpolate(msg string, args ...any) string {
	if len(args) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	params := make(map[string]any)
	if len(args) == 1 {
		if m, ok := args[0].(map[string]any); ok {
			params = m
		}
	} else {
		for i := 0; i+1 < len(args); i += 2 {
			if name, ok := args[i].(string); ok {
				params[name] = args[i+1]
			}
		}
	}
	for name, value := range params {
		msg = strings.ReplaceAll(msg, "{"+name+"}", fmt.Sprint(value))
	}
	return msg
}
