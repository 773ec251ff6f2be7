// Package extract converts office documents into the canonical content
// representation. One extractor per format, selected by file extension
// through a fixed registry.
package extract

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/sales-assistant/internal/document"
)

// Extractor converts a raw file into canonical document content.
type Extractor interface {
	// Format reports the canonical format this extractor produces.
	Format() document.Format
	// Extract reads the file at path and returns its content fully
	// materialized in memory.
	Extract(path string) (document.Content, error)
}

// registry maps lowercase file extensions to their extractor.
var registry = map[string]Extractor{
	".xlsx": &Workbook{},
	".docx": &WordDocument{},
	".pptx": &SlideDeck{},
	".pdf":  &PDFDocument{},
}

// legacyExts are the pre-OOXML binary formats. They are recognized so the
// user gets a conversion hint instead of a ZIP parse failure.
var legacyExts = map[string]string{
	".xls": ".xlsx",
	".doc": ".docx",
	".ppt": ".pptx",
}

// ForPath returns the extractor registered for the path's extension.
func ForPath(path string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ex, ok := registry[ext]; ok {
		return ex, nil
	}
	if modern, ok := legacyExts[ext]; ok {
		return nil, &UnsupportedFormatError{
			Path:      path,
			Extension: ext,
			Hint:      "legacy binary format, convert the file to " + modern,
		}
	}
	return nil, &UnsupportedFormatError{Path: path, Extension: ext}
}

// Supported reports whether the path's extension has a registered extractor.
func Supported(path string) bool {
	_, ok := registry[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions returns the registered extensions, for discovery filters.
func Extensions() []string {
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	return exts
}

// Extract dispatches on extension and runs the matching extractor.
func Extract(path string) (document.Content, document.Format, error) {
	ex, err := ForPath(path)
	if err != nil {
		return document.Content{}, "", err
	}
	if _, err := os.Stat(path); err != nil {
		return document.Content{}, ex.Format(), &ExtractionError{Path: path, Cause: err}
	}
	content, err := ex.Extract(path)
	if err != nil {
		return document.Content{}, ex.Format(), err
	}
	return content, ex.Format(), nil
}
