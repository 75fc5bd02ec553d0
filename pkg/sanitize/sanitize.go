// Package sanitize screens respondent input for markup and cleans localised
// prompt markup with bluemonday policies that are built once and shared.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	promptPolicyOnce sync.Once
	promptPolicy     *bluemonday.Policy
)

// HasMarkup reports whether raw carries tags or character references that
// the strict policy would rewrite. Plain text such as "Tom & Jerry" or
// "a < b" is not markup.
func HasMarkup(raw string) bool {
	if raw == "" {
		return false
	}
	if html.UnescapeString(raw) != raw {
		return true
	}
	return html.UnescapeString(textSanitizer().Sanitize(raw)) != raw
}

// PromptHTML keeps the small subset of markup prompts use: paragraphs,
// emphasis, line breaks and links that open in a new tab.
func PromptHTML(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(promptSanitizer().Sanitize(trimmed))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

func promptSanitizer() *bluemonday.Policy {
	promptPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("p", "br", "strong", "em", "span")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowAttrs("target").Matching(bluemonday.Paragraph).OnElements("a")
		policy.AllowRelativeURLs(true)
		policy.AllowURLSchemes("https", "http", "mailto")
		policy.RequireNoReferrerOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		promptPolicy = policy
	})
	return promptPolicy
}
