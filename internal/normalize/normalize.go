// Package normalize wraps extracted content into the canonical
// ExtractedDocument record and persists it to the durable extraction store.
package normalize

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/sales-assistant/internal/document"
)

// PersistError indicates a failed write to the extraction store.
type PersistError struct {
	Path  string
	Cause error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist failed for %s: %v", e.Path, e.Cause)
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}

// Normalizer materializes ExtractedDocument records into a target
// directory. It is stateless between calls; the directory is created on
// first use and reused after.
type Normalizer struct {
	dir string
}

// New returns a Normalizer writing under dir.
func New(dir string) *Normalizer {
	return &Normalizer{dir: dir}
}

// Normalize assembles the canonical record for freshly extracted content.
func (n *Normalizer) Normalize(content document.Content, path string, category document.Category, format document.Format) *document.ExtractedDocument {
	return &document.ExtractedDocument{
		SourcePath:  path,
		Category:    category,
		Format:      format,
		ExtractedAt: time.Now().UTC(),
		Content:     content,
	}
}

// Persist writes the structured record and, for tabular documents, one
// flattened CSV per sheet. The returned paths are unique across concurrent
// runs; see UniqueBase.
func (n *Normalizer) Persist(doc *document.ExtractedDocument) (string, []string, error) {
	if err := os.MkdirAll(n.dir, 0o755); err != nil {
		return "", nil, &PersistError{Path: n.dir, Cause: err}
	}

	base := UniqueBase(stem(doc.SourcePath))
	jsonPath := filepath.Join(n.dir, base+".json")

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", nil, &PersistError{Path: jsonPath, Cause: err}
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", nil, &PersistError{Path: jsonPath, Cause: err}
	}

	var csvPaths []string
	for _, sheet := range doc.Content.Sheets {
		csvPath := filepath.Join(n.dir, base+"_"+sanitize(sheet.Name)+".csv")
		if err := writeSheetCSV(csvPath, sheet); err != nil {
			return "", nil, err
		}
		csvPaths = append(csvPaths, csvPath)
	}

	return jsonPath, csvPaths, nil
}

// Load reads a persisted record back. Inspection tooling and tests depend
// on the round-trip being lossless.
func Load(path string) (*document.ExtractedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc document.ExtractedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// writeSheetCSV flattens one sheet. The first row serves as the header when
// non-empty; otherwise synthetic col_N headers cover the widest row.
func writeSheetCSV(path string, sheet document.Sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return &PersistError{Path: path, Cause: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header, rows := splitHeader(sheet.Rows)
	if err := w.Write(header); err != nil {
		return &PersistError{Path: path, Cause: err}
	}
	for _, row := range rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = document.FormatCell(v)
		}
		if err := w.Write(record); err != nil {
			return &PersistError{Path: path, Cause: err}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return &PersistError{Path: path, Cause: err}
	}
	return nil
}

func splitHeader(rows [][]any) ([]string, [][]any) {
	if len(rows) > 0 && len(rows[0]) > 0 {
		header := make([]string, len(rows[0]))
		for i, v := range rows[0] {
			header[i] = document.FormatCell(v)
		}
		return header, rows[1:]
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	header := make([]string, width)
	for i := range header {
		header[i] = fmt.Sprintf("col_%d", i+1)
	}
	return header, rows
}

// UniqueBase appends a second-resolution timestamp for human ordering and a
// short uuid suffix as the actual collision guarantee.
func UniqueBase(base string) string {
	ts := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s", base, ts, uuid.NewString()[:8])
}

func stem(path string) string {
	name := filepath.Base(path)
	return sanitize(strings.TrimSuffix(name, filepath.Ext(name)))
}

// sanitize keeps file-name components portable across filesystems.
func sanitize(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_", "*", "_", "?", "_", "\"", "_")
	return replacer.Replace(name)
}
