package sheets

import (
	"strconv"
	"strings"
)

// Cell is a single spreadsheet cell value: nil, string, or float64
// (numbers arrive as float64 from JSON decoding).
type Cell any

// Row is an ordered sequence of nullable scalar cells. Row length is not
// fixed; consumers index defensively with fallbacks.
type Row []Cell

// Grid is a 2-D table of cells as returned by the tabular backend.
type Grid []Row

// CellString converts a cell to its display string. Nil cells become the
// empty string; numbers are rendered without a trailing ".0" for integers.
func CellString(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// CellFloat converts a cell to a float64 if it holds a number or a
// numeric string.
func CellFloat(c Cell) (float64, bool) {
	switch v := c.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// CellEmpty reports whether a cell is nil or blank.
func CellEmpty(c Cell) bool {
	return CellString(c) == ""
}

// At returns the cell at index i, or nil when the row is shorter.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}
