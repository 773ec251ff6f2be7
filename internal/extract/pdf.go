package extract

import (
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/sales-assistant/internal/document"
)

// PDFDocument extracts plain text page by page. No layout reconstruction is
// attempted; each page becomes one block carrying its page number.
type PDFDocument struct{}

func (p *PDFDocument) Format() document.Format { return document.FormatPDF }

func (p *PDFDocument) Extract(path string) (document.Content, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return document.Content{}, &ExtractionError{Path: path, Cause: err}
	}
	defer f.Close()

	var blocks []document.Block
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return document.Content{}, &ExtractionError{Path: path, Cause: err}
		}
		if text = strings.TrimSpace(text); text == "" {
			continue
		}
		blocks = append(blocks, document.Block{Tag: document.TagPage, Text: text, Page: i})
	}
	return document.Content{Blocks: blocks}, nil
}
