package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/jonathan/sales-assistant/internal/document"
)

// WordDocument extracts paragraphs and tables from word-processor files.
// The OOXML container is walked directly, the way the DOCX payload is a ZIP
// of XML parts; no intermediate library is involved.
type WordDocument struct{}

func (w *WordDocument) Format() document.Format { return document.FormatWord }

func (w *WordDocument) Extract(path string) (document.Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Content{}, &ExtractionError{Path: path, Cause: err}
	}
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return document.Content{}, &ExtractionError{Path: path, Cause: err}
	}

	part, err := readZipPart(reader, "word/document.xml")
	if err != nil {
		return document.Content{}, &ExtractionError{Path: path, Cause: err}
	}

	blocks, err := parseWordBody(part)
	if err != nil {
		return document.Content{}, &ExtractionError{Path: path, Cause: err}
	}
	return document.Content{Blocks: blocks}, nil
}

type wordParagraph struct {
	Props struct {
		Style struct {
			Val string `xml:"val,attr"`
		} `xml:"pStyle"`
	} `xml:"pPr"`
	Runs []struct {
		Text []string `xml:"t"`
	} `xml:"r"`
}

func (p *wordParagraph) text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			sb.WriteString(t)
		}
	}
	return sb.String()
}

func (p *wordParagraph) tag() document.BlockTag {
	style := strings.ToLower(p.Props.Style.Val)
	if strings.HasPrefix(style, "heading") || style == "title" || style == "subtitle" {
		return document.TagHeading
	}
	return document.TagParagraph
}

type wordTable struct {
	Rows []struct {
		Cells []struct {
			Paragraphs []wordParagraph `xml:"p"`
		} `xml:"tc"`
	} `xml:"tr"`
}

// parseWordBody walks the document body token by token so paragraphs and
// tables come out in document order.
func parseWordBody(part []byte) ([]document.Block, error) {
	dec := xml.NewDecoder(bytes.NewReader(part))

	var blocks []document.Block
	table := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "p":
			var para wordParagraph
			if err := dec.DecodeElement(&para, &se); err != nil {
				return nil, err
			}
			if text := strings.TrimSpace(para.text()); text != "" {
				blocks = append(blocks, document.Block{Tag: para.tag(), Text: text})
			}
		case "tbl":
			var tbl wordTable
			if err := dec.DecodeElement(&tbl, &se); err != nil {
				return nil, err
			}
			table++
			for r, row := range tbl.Rows {
				for c, cell := range row.Cells {
					var sb strings.Builder
					for _, para := range cell.Paragraphs {
						if sb.Len() > 0 {
							sb.WriteString("\n")
						}
						sb.WriteString(para.text())
					}
					blocks = append(blocks, document.Block{
						Tag:   document.TagTableCell,
						Text:  strings.TrimSpace(sb.String()),
						Table: table,
						Row:   r + 1,
						Col:   c + 1,
					})
				}
			}
		}
	}
	return blocks, nil
}

// readZipPart returns the named archive entry, or an error naming the
// missing part for corrupted containers.
func readZipPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, &missingPartError{name: name}
}

type missingPartError struct{ name string }

func (e *missingPartError) Error() string { return "archive part not found: " + e.name }
