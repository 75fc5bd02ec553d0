package locale

import (
	"embed"
	"io/fs"
)

//go:embed data/catalog.yaml data/countries.yaml data/translations/*.yaml
var embeddedData embed.FS

// EmbeddedFS returns the bundled catalog files.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedData, "data")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Default loads the bundled catalog.
func Default() (*Catalog, error) {
	return Load(EmbeddedFS())
}
