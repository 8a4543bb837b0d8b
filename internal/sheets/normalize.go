package sheets

// LeadingMetaColumns is the number of non-display metadata columns at the
// start of every raw row. Stripping them is the one place that must change
// if the spreadsheet layout changes.
const LeadingMetaColumns = 5

// headerSentinels mark a first row that is a column header rather than data.
var headerSentinels = map[string]bool{
	"Image":       true,
	"Id category": true,
}

// Clean drops the leading metadata columns from every row. Rows shorter
// than the offset become empty rows rather than panicking.
func Clean(g Grid) Grid {
	cleaned := make(Grid, 0, len(g))
	for _, row := range g {
		if len(row) <= LeadingMetaColumns {
			cleaned = append(cleaned, Row{})
			continue
		}
		cleaned = append(cleaned, row[LeadingMetaColumns:])
	}
	return cleaned
}

// ValidateName checks the sheet-name marker embedded at a fixed position
// (first row, second-to-last column) of the raw grid. It guards against
// sheet renames and reordering upstream.
func ValidateName(raw Grid, expected string) bool {
	if len(raw) == 0 {
		return false
	}
	first := raw[0]
	if len(first) < 2 {
		return false
	}
	return CellString(first.At(len(first)-2)) == expected
}

// FilterHeader removes the first row when its first cell equals a known
// header sentinel. The check is bounded to the first row and column, so
// filtering an already-filtered grid changes nothing.
func FilterHeader(g Grid) Grid {
	if len(g) == 0 {
		return g
	}
	if headerSentinels[CellString(g[0].At(0))] {
		return g[1:]
	}
	return g
}
