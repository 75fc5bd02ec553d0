package web

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName is the bundled brand manifest.
const DefaultThemeName = "tuludi"

var (
	tokenNamePattern  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	tokenValuePattern = regexp.MustCompile(`^[#(),.%\w\s-]+$`)
)

// Theme is a resolved manifest: tokens merged with the selected variant.
type Theme struct {
	Name    string
	Variant string
	Tokens  map[string]string
}

// DefaultManifest is the built-in brand.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":       "#b4854b",
			"brand-hover": "#8b6539",
			"surface":     "#ffffff",
			"text":        "#111827",
			"text-muted":  "#6b7280",
			"muted":       "#e5e7eb",
			"danger":      "#b91c1c",
			"font-family": "system-ui, sans-serif",
		},
		Templates: map[string]string{
			"intake.layout":     "layout.html",
			"intake.welcome":    templateWelcome,
			"intake.question":   templateQuestion,
			"intake.completion": templateCompletion,
		},
		Assets: theme.Assets{
			Prefix: "/assets/intake",
			Files: map[string]string{
				"intake.signature": "signature.js",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface":    "#111827",
					"text":       "#f9fafb",
					"text-muted": "#9ca3af",
					"muted":      "#374151",
				},
			},
		},
	}
}

// ResolveTheme validates manifest through a go-theme registry and merges the
// variant tokens over the base tokens. An empty variant uses the base.
func ResolveTheme(manifest *theme.Manifest, variant string) (Theme, error) {
	if manifest == nil {
		return Theme{}, fmt.Errorf("web: theme manifest is nil")
	}
	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return Theme{}, fmt.Errorf("web: register theme %q: %w", manifest.Name, err)
	}

	tokens := make(map[string]string, len(manifest.Tokens))
	for k, v := range manifest.Tokens {
		tokens[k] = v
	}
	if variant != "" {
		v, ok := manifest.Variants[variant]
		if !ok {
			return Theme{}, fmt.Errorf("web: theme %q has no variant %q", manifest.Name, variant)
		}
		for k, val := range v.Tokens {
			tokens[k] = val
		}
	}
	return Theme{Name: manifest.Name, Variant: variant, Tokens: tokens}, nil
}

// CSSVars renders the tokens as custom property declarations, sorted by
// name. Tokens with unsafe names or values are skipped.
func (t Theme) CSSVars() string {
	vars := make(map[string]string, len(t.Tokens))
	for k, v := range t.Tokens {
		name := strings.TrimPrefix(strings.TrimSpace(k), "--")
		value := strings.TrimSpace(v)
		if !tokenNamePattern.MatchString(name) || !tokenValuePattern.MatchString(value) {
			continue
		}
		vars[name] = value
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "--%s: %s; ", name, vars[name])
	}
	return strings.TrimSpace(b.String())
}
