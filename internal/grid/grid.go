// Package grid wraps an excelize worksheet as a bounded, read-only
// two-dimensional grid addressed by 1-based (row, column) coordinates.
//
// The extraction core never talks to excelize directly: all cell access goes
// through a Sheet so that coordinate arithmetic (column letters, absolute vs
// relative offsets) lives in exactly one place. A Sheet snapshots the used
// range once at construction, so lookups are in-memory and re-entrant.
package grid

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is an immutable snapshot of one worksheet's used range.
type Sheet struct {
	name   string
	rows   [][]string
	maxRow int
	maxCol int
}

// NewSheet reads the named worksheet from an open workbook and snapshots its
// populated extent. Values are the formatted strings excelize produces; an
// empty string is a blank cell.
func NewSheet(f *excelize.File, name string) (*Sheet, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}

	maxCol := 0
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}

	return &Sheet{
		name:   name,
		rows:   rows,
		maxRow: len(rows),
		maxCol: maxCol,
	}, nil
}

// NewSheetFromRows builds a Sheet from an in-memory row matrix. Used by tests
// and anywhere a worksheet has already been materialized.
func NewSheetFromRows(name string, rows [][]string) *Sheet {
	maxCol := 0
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}
	return &Sheet{name: name, rows: rows, maxRow: len(rows), maxCol: maxCol}
}

// Name returns the worksheet name.
func (s *Sheet) Name() string { return s.name }

// MaxRow returns the highest populated row index (1-based, 0 when empty).
func (s *Sheet) MaxRow() int { return s.maxRow }

// MaxCol returns the highest populated column index (1-based, 0 when empty).
func (s *Sheet) MaxCol() int { return s.maxCol }

// Cell returns the raw value at (row, col), both 1-based. Coordinates outside
// the used range read as blank.
func (s *Sheet) Cell(row, col int) string {
	if row < 1 || col < 1 || row > s.maxRow {
		return ""
	}
	r := s.rows[row-1]
	if col > len(r) {
		return ""
	}
	return r[col-1]
}

// CellAt returns the raw value at a column-letter/row address, e.g. ("B", 9).
// An invalid column letter reads as blank.
func (s *Sheet) CellAt(col string, row int) string {
	n, err := ColumnNumber(col)
	if err != nil {
		return ""
	}
	return s.Cell(row, n)
}

// ColumnNumber maps a column letter to its 1-based index ("A" -> 1).
func ColumnNumber(col string) (int, error) {
	n, err := excelize.ColumnNameToNumber(col)
	if err != nil {
		return 0, fmt.Errorf("invalid column %q: %w", col, err)
	}
	return n, nil
}

// ColumnName maps a 1-based column index to its letter (1 -> "A").
func ColumnName(n int) (string, error) {
	name, err := excelize.ColumnNumberToName(n)
	if err != nil {
		return "", fmt.Errorf("invalid column index %d: %w", n, err)
	}
	return name, nil
}

// IsBlank reports whether a raw cell value is empty or whitespace-only.
func IsBlank(v string) bool {
	return strings.TrimSpace(v) == ""
}

// RowBlank reports whether every cell of the span [startCol, startCol+width)
// on the given row is blank.
func (s *Sheet) RowBlank(row, startCol, width int) bool {
	for c := startCol; c < startCol+width; c++ {
		if !IsBlank(s.Cell(row, c)) {
			return false
		}
	}
	return true
}
