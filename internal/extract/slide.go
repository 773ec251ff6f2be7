package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"os"

	"github.com/jonathan/sales-assistant/internal/document"
)

// SlideDeck extracts one group of blocks per slide from presentation files.
// Title placeholders tag slide-title, other text frames slide-body, speaker
// notes slide-notes, all in stored shape order.
type SlideDeck struct{}

func (s *SlideDeck) Format() document.Format { return document.FormatSlide }

var (
	slidePartPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	notesPartPattern = regexp.MustCompile(`^ppt/notesSlides/notesSlide(\d+)\.xml$`)
)

func (s *SlideDeck) Extract(path string) (document.Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Content{}, &ExtractionError{Path: path, Cause: err}
	}
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return document.Content{}, &ExtractionError{Path: path, Cause: err}
	}

	slides, err := numberedParts(reader, slidePartPattern)
	if err != nil {
		return document.Content{}, &ExtractionError{Path: path, Cause: err}
	}
	notes, err := numberedParts(reader, notesPartPattern)
	if err != nil {
		return document.Content{}, &ExtractionError{Path: path, Cause: err}
	}

	var blocks []document.Block
	for _, n := range sortedSlideNumbers(slides) {
		slideBlocks, err := parseSlide(slides[n].data, n)
		if err != nil {
			return document.Content{}, &ExtractionError{Path: path, Cause: err}
		}
		blocks = append(blocks, slideBlocks...)

		if note, ok := notes[n]; ok {
			if text := parseNotes(note.data); text != "" {
				blocks = append(blocks, document.Block{
					Tag:   document.TagSlideNotes,
					Text:  text,
					Slide: n,
				})
			}
		}
	}
	return document.Content{Blocks: blocks}, nil
}

type numberedPart struct {
	number int
	data   []byte
}

// numberedParts collects archive entries matching the pattern, keyed and
// ordered by their embedded slide number.
func numberedParts(reader *zip.Reader, pattern *regexp.Regexp) (map[int]numberedPart, error) {
	parts := make(map[int]numberedPart)
	for _, file := range reader.File {
		m := pattern.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		data, err := readZipPart(reader, file.Name)
		if err != nil {
			return nil, err
		}
		parts[n] = numberedPart{number: n, data: data}
	}
	return parts, nil
}

type slideXML struct {
	CSld struct {
		SpTree struct {
			Shapes []slideShape `xml:"sp"`
		} `xml:"spTree"`
	} `xml:"cSld"`
}

type slideShape struct {
	NvSpPr struct {
		NvPr struct {
			Placeholder *struct {
				Type string `xml:"type,attr"`
			} `xml:"ph"`
		} `xml:"nvPr"`
	} `xml:"nvSpPr"`
	TxBody *struct {
		Paragraphs []struct {
			Runs []struct {
				Text string `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"txBody"`
}

func (sp *slideShape) text() string {
	if sp.TxBody == nil {
		return ""
	}
	var lines []string
	for _, p := range sp.TxBody.Paragraphs {
		var sb strings.Builder
		for _, r := range p.Runs {
			sb.WriteString(r.Text)
		}
		if line := strings.TrimSpace(sb.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func (sp *slideShape) isTitle() bool {
	ph := sp.NvSpPr.NvPr.Placeholder
	return ph != nil && (ph.Type == "title" || ph.Type == "ctrTitle")
}

func parseSlide(data []byte, number int) ([]document.Block, error) {
	var slide slideXML
	if err := xml.Unmarshal(data, &slide); err != nil {
		return nil, err
	}

	var blocks []document.Block
	for _, shape := range slide.CSld.SpTree.Shapes {
		text := shape.text()
		if text == "" {
			continue
		}
		tag := document.TagSlideBody
		if shape.isTitle() {
			tag = document.TagSlideTitle
		}
		blocks = append(blocks, document.Block{Tag: tag, Text: text, Slide: number})
	}
	return blocks, nil
}

// parseNotes pulls the body placeholder text out of a notes slide. Slide
// image and page-number placeholders are skipped.
func parseNotes(data []byte) string {
	var slide slideXML
	if err := xml.Unmarshal(data, &slide); err != nil {
		return ""
	}
	var lines []string
	for _, shape := range slide.CSld.SpTree.Shapes {
		ph := shape.NvSpPr.NvPr.Placeholder
		if ph == nil || ph.Type != "body" {
			continue
		}
		if text := shape.text(); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

func sortedSlideNumbers(parts map[int]numberedPart) []int {
	nums := make([]int, 0, len(parts))
	for n := range parts {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
