package analysis

import "strings"

// Cleanse trims whitespace from every string cell and drops rows in which
// every cell is empty. A cell is empty when it is absent (nil) or a string
// that is "" after trimming. Retained rows keep their order and all of
// their cells. The input rows are not modified.
//
// The header argument mirrors ProfileRows; cleansing never changes the
// column layout.
func Cleanse(_ []string, rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		cleaned := make(Row, len(r))
		keep := false
		for j, c := range r {
			if s, ok := c.(string); ok {
				c = strings.TrimFunc(s, isTrimSpace)
			}
			cleaned[j] = c
			if isPresent(c) {
				keep = true
			}
		}
		if keep {
			out = append(out, cleaned)
		}
	}
	return out
}
