// Package observability provides formatted CLI output for progress, file
// summaries, and warnings. Optional-input omissions are reported here so
// the behavior stays observable even though the request continues.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/sales-assistant/internal/catalog"
	"github.com/jonathan/sales-assistant/internal/document"
)

const bannerWidth = 70

// Printer handles formatted output. Progress output and warnings go to
// separate writers so warnings stay visible when progress is muted.
type Printer struct {
	out  io.Writer
	warn io.Writer
}

// NewPrinter creates a Printer writing progress to out and warnings to
// warn.
func NewPrinter(out, warn io.Writer) *Printer {
	return &Printer{out: out, warn: warn}
}

//nolint:errcheck // writing to stdout; errors are not recoverable

// Banner prints a section banner with the given title.
func (p *Printer) Banner(title string) {
	line := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(p.out, "%s\n  %s\n%s\n", line, title, line)
}

// Stepf reports pipeline progress.
func (p *Printer) Stepf(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Warnf reports a recoverable problem, such as a dropped optional input.
// Warnings are never muted: they go to the warning writer even when
// progress output is discarded.
func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintf(p.warn, "warning: "+format+"\n", args...)
}

// categoryLabels pairs display names with categories for the file summary.
var categoryLabels = []struct {
	label    string
	category document.Category
}{
	{"产品文档", document.CategoryProduct},
	{"竞品文档", document.CategoryCompetitor},
	{"客户信息", document.CategoryCustomer},
	{"产品目录", document.CategoryCatalog},
	{"未分类", document.CategoryUnknown},
}

// FileSummary prints the per-category listing of discovered documents,
// most recent first within each category.
func (p *Printer) FileSummary(grouped map[document.Category][]catalog.File) {
	p.Banner("文件摘要")
	for _, entry := range categoryLabels {
		files := grouped[entry.category]
		fmt.Fprintf(p.out, "\n%s (%d个文件):\n", entry.label, len(files))
		fmt.Fprintln(p.out, strings.Repeat("-", bannerWidth))
		if len(files) == 0 {
			fmt.Fprintln(p.out, "  (无文件)")
			continue
		}
		for i, f := range files {
			fmt.Fprintf(p.out, "  %d. %s (%.1fKB)\n", i+1, baseName(f.Path), float64(f.SizeBytes)/1024)
		}
	}
	fmt.Fprintln(p.out, strings.Repeat("=", bannerWidth))
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
