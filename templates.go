package intake

import (
	"io/fs"

	"github.com/goliatone/go-intake/pkg/locale"
	"github.com/goliatone/go-intake/pkg/renderers/web"
)

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them through web.WithTemplates.
func EmbeddedTemplates() fs.FS {
	return web.TemplatesFS()
}

// EmbeddedTranslations exposes the catalog, country list and translation
// files the default catalog is loaded from.
func EmbeddedTranslations() fs.FS {
	return locale.EmbeddedFS()
}
