// Package workbook decodes spreadsheet files into raw cell grids.
package workbook

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is a named grid of raw cell text in workbook order.
type Sheet struct {
	Name string
	Rows [][]string
}

// Cell returns the trimmed text at (row, col) or "" when out of range.
func (s Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) || col < 0 || col >= len(s.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(s.Rows[row][col])
}

// Workbook is an ordered list of sheets.
type Workbook struct {
	Sheets []Sheet
}

// Sheet returns the sheet named name.
func (w *Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// Read decodes an .xlsx stream. Cells are read as raw values so numbers
// keep their stored precision rather than the display format.
func Read(ctx context.Context, r io.Reader) (*Workbook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, ErrNoSheets
	}

	wb := &Workbook{Sheets: make([]Sheet, 0, len(names))}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %w", ErrUnreadable, name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: TrimRows(rows)})
	}
	return wb, nil
}

// TrimRows drops trailing rows whose cells are all blank.
func TrimRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && IsBlank(rows[end-1]) {
		end--
	}
	return rows[:end]
}

// IsBlank reports whether every cell of row is empty after trimming.
func IsBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
