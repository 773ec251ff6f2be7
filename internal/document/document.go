// Package document defines the canonical in-memory representation of an
// extracted source file, shared by the extractors, the normalizer, and the
// prompt assembler.
package document

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Category is the business role assigned to a source file.
type Category string

const (
	CategoryProduct    Category = "product"
	CategoryCompetitor Category = "competitor"
	CategoryCustomer   Category = "customer"
	CategoryCatalog    Category = "catalog"
	CategoryUnknown    Category = "unknown"
)

// Categories returns the four classifiable categories, in declaration order.
// CategoryUnknown is excluded: it is a fallback, not a folder.
func Categories() []Category {
	return []Category{CategoryProduct, CategoryCompetitor, CategoryCustomer, CategoryCatalog}
}

// Format identifies the source document kind.
type Format string

const (
	FormatTabular Format = "tabular"
	FormatWord    Format = "word"
	FormatSlide   Format = "slide"
	FormatPDF     Format = "pdf"
)

// BlockTag labels the structural role of a text block.
type BlockTag string

const (
	TagHeading    BlockTag = "heading"
	TagParagraph  BlockTag = "paragraph"
	TagTableCell  BlockTag = "table-cell"
	TagSlideTitle BlockTag = "slide-title"
	TagSlideBody  BlockTag = "slide-body"
	TagSlideNotes BlockTag = "slide-notes"
	TagPage       BlockTag = "page"
)

// Block is one text unit of a word, slide, or pdf document.
// Slide and Page are 1-based and set only where they apply; Row and Col
// position table cells within their table.
type Block struct {
	Tag   BlockTag `json:"tag"`
	Text  string   `json:"text"`
	Slide int      `json:"slide,omitempty"`
	Page  int      `json:"page,omitempty"`
	Table int      `json:"table,omitempty"`
	Row   int      `json:"row,omitempty"`
	Col   int      `json:"col,omitempty"`
}

// Sheet is one worksheet of a tabular document. Cell values retain their
// native scalar type: string, float64, bool, or nil.
type Sheet struct {
	Name string  `json:"name"`
	Rows [][]any `json:"rows"`
}

// Content is the format-dependent canonical payload. Exactly one of the two
// members is populated: Sheets for tabular sources, Blocks for everything
// else.
type Content struct {
	Sheets []Sheet `json:"sheets,omitempty"`
	Blocks []Block `json:"blocks,omitempty"`
}

// ExtractedDocument wraps extracted content with its file metadata. The
// field names form the persisted JSON contract and must stay stable.
type ExtractedDocument struct {
	SourcePath  string    `json:"source_path"`
	Category    Category  `json:"category"`
	Format      Format    `json:"format"`
	ExtractedAt time.Time `json:"extracted_at"`
	Content     Content   `json:"content"`
}

// FormatCell renders a single cell value the way it appears in prompts and
// CSV side-files. Numbers use the shortest representation that round-trips.
func FormatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case bool:
		return strconv.FormatBool(c)
	case float64:
		return strconv.FormatFloat(c, 'g', -1, 64)
	case int:
		return strconv.Itoa(c)
	default:
		return fmt.Sprintf("%v", c)
	}
}

// RenderText flattens the document into the text form fed to the completion
// service. The section labels match the generation templates, which address
// the model in Chinese. Output is deterministic for a given document.
func (d *ExtractedDocument) RenderText() string {
	var sb strings.Builder
	sb.WriteString("文件名: " + filepath.Base(d.SourcePath) + "\n")
	sb.WriteString("文件类型: " + string(d.Format) + "\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n")

	switch d.Format {
	case FormatTabular:
		for _, sheet := range d.Content.Sheets {
			sb.WriteString("\n工作表: " + sheet.Name + "\n")
			sb.WriteString(strings.Repeat("-", 40) + "\n")
			for _, row := range sheet.Rows {
				cells := make([]string, len(row))
				for i, v := range row {
					cells[i] = FormatCell(v)
				}
				sb.WriteString(strings.Join(cells, " | ") + "\n")
			}
		}
	case FormatSlide:
		slide := 0
		for _, b := range d.Content.Blocks {
			if b.Slide != slide {
				slide = b.Slide
				sb.WriteString(fmt.Sprintf("\n幻灯片 %d:\n", slide))
				sb.WriteString(strings.Repeat("-", 40) + "\n")
			}
			if b.Tag == TagSlideNotes {
				sb.WriteString("备注: " + b.Text + "\n")
			} else {
				sb.WriteString(b.Text + "\n")
			}
		}
	case FormatPDF:
		for _, b := range d.Content.Blocks {
			sb.WriteString(fmt.Sprintf("\n第 %d 页:\n", b.Page))
			sb.WriteString(strings.Repeat("-", 40) + "\n")
			sb.WriteString(b.Text + "\n")
		}
	default: // word
		table := 0
		for _, b := range d.Content.Blocks {
			switch b.Tag {
			case TagTableCell:
				if b.Table != table {
					table = b.Table
					sb.WriteString(fmt.Sprintf("\n表格 %d:\n", table))
					sb.WriteString(strings.Repeat("-", 40) + "\n")
				}
				sb.WriteString(fmt.Sprintf("[%d,%d] %s\n", b.Row, b.Col, b.Text))
			default:
				sb.WriteString(b.Text + "\n")
			}
		}
	}

	return sb.String()
}
