package sanitize

import (
	"strings"
	"testing"
)

func TestHasMarkup(t *testing.T) {
	cases := map[string]bool{
		"Jane Doe":                               false,
		"  Jane Doe ":                            false,
		"Smith & Sons":                           false,
		"O'Brien":                                false,
		"a < b":                                  false,
		"Sam (7), Lia (4)":                       false,
		"":                                       false,
		"Jane <Doe>":                             true,
		"<b>Jane</b>":                            true,
		`<img src=x onerror="alert(1)">Sam`:     true,
		"&lt;script&gt;alert(1)&lt;/script&gt;": true,
		"Smith &amp; Sons":                       true,
	}
	for in, want := range cases {
		if got := HasMarkup(in); got != want {
			t.Fatalf("HasMarkup(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPromptHTMLKeepsLinks(t *testing.T) {
	in := `<p>Accept?</p><a href="/terms.jpeg" target="_blank" onclick="steal()">view</a><script>bad()</script>`
	got := PromptHTML(in)

	if !strings.Contains(got, `<p>Accept?</p>`) || !strings.Contains(got, `href="/terms.jpeg"`) {
		t.Fatalf("expected paragraph and link to survive: %s", got)
	}
	if strings.Contains(got, "onclick") || strings.Contains(got, "script") {
		t.Fatalf("unsafe markup survived: %s", got)
	}
}

func TestPromptHTMLRejectsJavascriptURLs(t *testing.T) {
	got := PromptHTML(`<a href="javascript:alert(1)">x</a>`)
	if strings.Contains(got, "javascript") {
		t.Fatalf("javascript url survived: %s", got)
	}
}
