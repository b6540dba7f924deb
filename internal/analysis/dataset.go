package analysis

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Cell is a single scalar value at a row/column position. A nil Cell is
// absent. Decoders supply strings or numbers; anything else is handled
// through its string form.
type Cell = any

// Row is an ordered sequence of cells. It may be shorter than the header;
// missing trailing cells are absent.
type Row []Cell

// Dataset is a header plus data rows. Column i of every row corresponds to
// Header[i]; names are positional and need not be unique.
type Dataset struct {
	Header []string
	Rows   []Row
}

// Columns returns the number of header columns.
func (d Dataset) Columns() int { return len(d.Header) }

// Cleanse returns a new dataset with trimmed cells and all-empty rows removed.
func (d Dataset) Cleanse() Dataset {
	return Dataset{Header: d.Header, Rows: Cleanse(d.Header, d.Rows)}
}

// Profile computes the column profile of the dataset as it stands.
func (d Dataset) Profile() Profile {
	return ProfileRows(d.Header, d.Rows)
}

// cellAt returns the cell at column i, or nil when the row is too short.
func cellAt(r Row, i int) Cell {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// CellText renders a cell the way the profiler compares and parses it.
// nil renders as "". Non-finite floats use "NaN", "Infinity" and
// "-Infinity" so they go through ParseLeadingFloat consistently; every
// other scalar is rendered by cast.ToString, which means the number 1 and
// the string "1" have the same text.
func CellText(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return floatText(v)
	case float32:
		return floatText(float64(v))
	}
	return cast.ToString(c)
}

func floatText(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return cast.ToString(f)
}

// isPresent reports whether a cell counts toward completeness: anything
// except nil and the empty string. Whitespace-only strings are present.
func isPresent(c Cell) bool {
	switch v := c.(type) {
	case nil:
		return false
	case string:
		return v != ""
	}
	return true
}

// normalizeKey is the distinct-value key used for uniqueness.
func normalizeKey(c Cell) string {
	return strings.ToLower(CellText(c))
}
