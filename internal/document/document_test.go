package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil cell", nil, ""},
		{"string cell", "保费", "保费"},
		{"float without decimals", float64(1200), "1200"},
		{"float with decimals", 12.5, "12.5"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"int cell", 7, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCell(tt.input))
		})
	}
}

func TestRenderTextTabular(t *testing.T) {
	doc := &ExtractedDocument{
		SourcePath:  "/data/product/终身寿险.xlsx",
		Category:    CategoryProduct,
		Format:      FormatTabular,
		ExtractedAt: time.Now(),
		Content: Content{
			Sheets: []Sheet{
				{Name: "价格表", Rows: [][]any{
					{"产品", "保费"},
					{"康宁终身", float64(5000)},
				}},
			},
		},
	}

	text := doc.RenderText()
	assert.Contains(t, text, "文件名: 终身寿险.xlsx")
	assert.Contains(t, text, "工作表: 价格表")
	assert.Contains(t, text, "产品 | 保费")
	assert.Contains(t, text, "康宁终身 | 5000")
}

func TestRenderTextWord(t *testing.T) {
	doc := &ExtractedDocument{
		SourcePath: "/data/product/brochure.docx",
		Format:     FormatWord,
		Content: Content{
			Blocks: []Block{
				{Tag: TagHeading, Text: "产品介绍"},
				{Tag: TagParagraph, Text: "这是一款终身寿险。"},
				{Tag: TagTableCell, Text: "保额", Table: 1, Row: 1, Col: 1},
				{Tag: TagTableCell, Text: "100万", Table: 1, Row: 1, Col: 2},
			},
		},
	}

	text := doc.RenderText()
	assert.Contains(t, text, "产品介绍")
	assert.Contains(t, text, "表格 1:")
	assert.Contains(t, text, "[1,1] 保额")
	assert.Contains(t, text, "[1,2] 100万")
}

func TestRenderTextSlide(t *testing.T) {
	doc := &ExtractedDocument{
		SourcePath: "/data/deck.pptx",
		Format:     FormatSlide,
		Content: Content{
			Blocks: []Block{
				{Tag: TagSlideTitle, Text: "开场", Slide: 1},
				{Tag: TagSlideBody, Text: "欢迎", Slide: 1},
				{Tag: TagSlideNotes, Text: "先自我介绍", Slide: 1},
				{Tag: TagSlideTitle, Text: "方案", Slide: 2},
			},
		},
	}

	text := doc.RenderText()
	assert.Contains(t, text, "幻灯片 1:")
	assert.Contains(t, text, "备注: 先自我介绍")
	assert.Contains(t, text, "幻灯片 2:")
}

func TestRenderTextPDF(t *testing.T) {
	doc := &ExtractedDocument{
		SourcePath: "/data/terms.pdf",
		Format:     FormatPDF,
		Content: Content{
			Blocks: []Block{
				{Tag: TagPage, Text: "条款第一页", Page: 1},
				{Tag: TagPage, Text: "条款第二页", Page: 2},
			},
		},
	}

	text := doc.RenderText()
	assert.Contains(t, text, "第 1 页:")
	assert.Contains(t, text, "第 2 页:")
	assert.Contains(t, text, "条款第二页")
}

func TestRenderTextDeterministic(t *testing.T) {
	doc := &ExtractedDocument{
		SourcePath: "/data/p.xlsx",
		Format:     FormatTabular,
		Content:    Content{Sheets: []Sheet{{Name: "S", Rows: [][]any{{"a", 1.0}}}}},
	}
	assert.Equal(t, doc.RenderText(), doc.RenderText())
}
