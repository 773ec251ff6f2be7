package extract

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/sales-assistant/internal/document"
)

// writeArchive builds an OOXML-style container with the given parts.
func writeArchive(t *testing.T, name string, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for partName, content := range parts {
		w, err := zw.Create(partName)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>产品介绍</w:t></w:r></w:p>
    <w:p><w:r><w:t>这是一款</w:t></w:r><w:r><w:t>终身寿险。</w:t></w:r></w:p>
    <w:p><w:r><w:t>   </w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>保额</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>100万</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>保费</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>5000元</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
    <w:p><w:r><w:t>表格后的说明。</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestWordDocumentExtract(t *testing.T) {
	path := writeArchive(t, "brochure.docx", map[string]string{
		"word/document.xml": testDocumentXML,
	})

	content, err := (&WordDocument{}).Extract(path)
	require.NoError(t, err)

	expected := []document.Block{
		{Tag: document.TagHeading, Text: "产品介绍"},
		{Tag: document.TagParagraph, Text: "这是一款终身寿险。"},
		{Tag: document.TagTableCell, Text: "保额", Table: 1, Row: 1, Col: 1},
		{Tag: document.TagTableCell, Text: "100万", Table: 1, Row: 1, Col: 2},
		{Tag: document.TagTableCell, Text: "保费", Table: 1, Row: 2, Col: 1},
		{Tag: document.TagTableCell, Text: "5000元", Table: 1, Row: 2, Col: 2},
		{Tag: document.TagParagraph, Text: "表格后的说明。"},
	}
	assert.Equal(t, expected, content.Blocks)
}

func TestWordDocumentExtractViaRegistry(t *testing.T) {
	path := writeArchive(t, "note.docx", map[string]string{
		"word/document.xml": testDocumentXML,
	})

	content, format, err := Extract(path)
	require.NoError(t, err)
	assert.Equal(t, document.FormatWord, format)
	assert.NotEmpty(t, content.Blocks)
}

func TestWordDocumentMissingPart(t *testing.T) {
	path := writeArchive(t, "broken.docx", map[string]string{
		"word/other.xml": "<x/>",
	})

	_, err := (&WordDocument{}).Extract(path)
	require.Error(t, err)

	var ee *ExtractionError
	require.True(t, errors.As(err, &ee))
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestWordDocumentNotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip payload"), 0o644))

	_, err := (&WordDocument{}).Extract(path)
	require.Error(t, err)

	var ee *ExtractionError
	assert.True(t, errors.As(err, &ee))
}

func TestWordParagraphTag(t *testing.T) {
	tests := []struct {
		name     string
		style    string
		expected document.BlockTag
	}{
		{"heading style", "Heading2", document.TagHeading},
		{"title style", "Title", document.TagHeading},
		{"subtitle style", "Subtitle", document.TagHeading},
		{"body style", "Normal", document.TagParagraph},
		{"no style", "", document.TagParagraph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p wordParagraph
			p.Props.Style.Val = tt.style
			assert.Equal(t, tt.expected, p.tag())
		})
	}
}
