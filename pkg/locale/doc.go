// Package locale loads the translation catalog and materialises the
// localised question set for a language. Translations ship as YAML files
// embedded in the binary; alternative catalogs can be loaded from any fs.FS.
package locale
