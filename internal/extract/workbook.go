package extract

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/sales-assistant/internal/document"
)

// Workbook extracts tabular content from spreadsheet files. Every sheet is
// read in stored order; cell values keep their native scalar type.
type Workbook struct{}

func (w *Workbook) Format() document.Format { return document.FormatTabular }

func (w *Workbook) Extract(path string) (document.Content, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return document.Content{}, &ExtractionError{Path: path, Cause: err}
	}
	defer f.Close()

	var sheets []document.Sheet
	for _, name := range f.GetSheetList() {
		raw, err := f.GetRows(name)
		if err != nil {
			return document.Content{}, &ExtractionError{Path: path, Cause: err}
		}

		rows := make([][]any, 0, len(raw))
		for r, cells := range raw {
			row := make([]any, len(cells))
			for c, value := range cells {
				row[c] = typedCell(f, name, c+1, r+1, value)
			}
			rows = append(rows, trimTrailingNils(row))
		}
		sheets = append(sheets, document.Sheet{Name: name, Rows: trimTrailingEmptyRows(rows)})
	}

	return document.Content{Sheets: sheets}, nil
}

// typedCell converts the formatted cell string back to its native scalar
// type using the stored cell type. Anything unparseable stays a string.
func typedCell(f *excelize.File, sheet string, col, row int, value string) any {
	if value == "" {
		return nil
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return value
	}
	ct, err := f.GetCellType(sheet, axis)
	if err != nil {
		return value
	}
	switch ct {
	case excelize.CellTypeNumber:
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return n
		}
	case excelize.CellTypeBool:
		return strings.EqualFold(value, "true") || value == "1"
	case excelize.CellTypeFormula:
		// Evaluated result may still be numeric.
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return n
		}
	}
	return value
}

func trimTrailingNils(row []any) []any {
	end := len(row)
	for end > 0 && row[end-1] == nil {
		end--
	}
	return row[:end]
}

func trimTrailingEmptyRows(rows [][]any) [][]any {
	end := len(rows)
	for end > 0 && len(rows[end-1]) == 0 {
		end--
	}
	return rows[:end]
}
