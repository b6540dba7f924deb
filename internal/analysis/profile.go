package analysis

import (
	"encoding/json"
	"fmt"
	"math"
)

// Profile is the per-column summary of a dataset, in header order.
type Profile []ColumnProfile

// ColumnProfile captures completeness, cardinality and, for numeric
// columns, distribution statistics.
type ColumnProfile struct {
	Column string `json:"column"`
	// Completeness is the percentage (0-100) of rows with a non-empty value.
	Completeness float64 `json:"completeness"`
	// Uniqueness counts distinct non-empty values, case-insensitively.
	Uniqueness int  `json:"uniqueness"`
	IsNumeric  bool `json:"is_numeric"`
	// Stats is nil unless IsNumeric. It is also nil for a numeric column
	// holding both +Inf and -Inf, which has no mean.
	Stats *Stats `json:"stats,omitempty"`
}

// Stats summarizes a numeric column. StdDev is the population standard
// deviation. Infinite values are encoded in JSON as "Infinity" and
// "-Infinity".
type Stats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

type statsJSON struct {
	Mean   jsonFloat `json:"mean"`
	StdDev jsonFloat `json:"std_dev"`
	Min    jsonFloat `json:"min"`
	Max    jsonFloat `json:"max"`
}

func (s Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(statsJSON{jsonFloat(s.Mean), jsonFloat(s.StdDev), jsonFloat(s.Min), jsonFloat(s.Max)})
}

func (s *Stats) UnmarshalJSON(b []byte) error {
	var v statsJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Stats{Mean: float64(v.Mean), StdDev: float64(v.StdDev), Min: float64(v.Min), Max: float64(v.Max)}
	return nil
}

// jsonFloat is a float64 that survives JSON encoding when infinite.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	x := float64(f)
	switch {
	case math.IsInf(x, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(x, -1):
		return []byte(`"-Infinity"`), nil
	case math.IsNaN(x):
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(x)
}

func (f *jsonFloat) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || b[0] != '"' {
		var x float64
		if err := json.Unmarshal(b, &x); err != nil {
			return err
		}
		*f = jsonFloat(x)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "Infinity":
		*f = jsonFloat(math.Inf(1))
	case "-Infinity":
		*f = jsonFloat(math.Inf(-1))
	case "NaN":
		*f = jsonFloat(math.NaN())
	default:
		return fmt.Errorf("invalid stats value %q", s)
	}
	return nil
}

// ProfileRows profiles every header column of rows. It never fails: short
// rows contribute absent values, unparsable values make a column
// non-numeric, and an empty row set yields completeness 0 for every column.
func ProfileRows(header []string, rows []Row) Profile {
	out := make(Profile, len(header))
	for i, name := range header {
		out[i] = profileColumn(name, i, rows)
	}
	return out
}

func profileColumn(name string, idx int, rows []Row) ColumnProfile {
	cp := ColumnProfile{Column: name}
	var nonEmpty []Cell
	for _, r := range rows {
		if c := cellAt(r, idx); isPresent(c) {
			nonEmpty = append(nonEmpty, c)
		}
	}
	if len(rows) > 0 {
		cp.Completeness = float64(len(nonEmpty)) / float64(len(rows)) * 100
	}

	seen := make(map[string]struct{}, len(nonEmpty))
	for _, c := range nonEmpty {
		seen[normalizeKey(c)] = struct{}{}
	}
	cp.Uniqueness = len(seen)

	// An empty column is never numeric, whatever "all values parse" says
	// about the empty set.
	if len(nonEmpty) == 0 {
		return cp
	}
	nums := make([]float64, 0, len(nonEmpty))
	for _, c := range nonEmpty {
		x, ok := ParseLeadingFloat(CellText(c))
		if !ok {
			return cp
		}
		nums = append(nums, x)
	}
	cp.IsNumeric = true
	cp.Stats = summarize(nums)
	return cp
}

// largeMagnitude bounds the values the running update handles unscaled;
// beyond it the squared deltas could overflow.
const largeMagnitude = 1e150

// summarize computes mean, population standard deviation and range with a
// Welford running update. nums must be non-empty. It returns nil when nums
// holds both +Inf and -Inf.
//
// With one sign of infinity present the mean is that infinity and StdDev is
// +Inf, unless every value is the same infinity (StdDev 0).
func summarize(nums []float64) *Stats {
	s := &Stats{Min: nums[0], Max: nums[0]}
	for _, x := range nums {
		s.Min = math.Min(s.Min, x)
		s.Max = math.Max(s.Max, x)
	}
	switch {
	case math.IsInf(s.Min, -1) && math.IsInf(s.Max, 1):
		return nil
	case s.Min == s.Max:
		s.Mean = s.Min
		return s
	case math.IsInf(s.Min, -1):
		s.Mean, s.StdDev = s.Min, math.Inf(1)
		return s
	case math.IsInf(s.Max, 1):
		s.Mean, s.StdDev = s.Max, math.Inf(1)
		return s
	}

	scale := math.Max(math.Abs(s.Min), math.Abs(s.Max))
	if scale < largeMagnitude {
		scale = 1
	}
	var mean, m2 float64
	for n, x := range nums {
		x /= scale
		delta := x - mean
		mean += delta / float64(n+1)
		m2 += delta * (x - mean)
	}
	s.Mean = mean * scale
	// Rounding in the running update can leave the mean a ulp outside the
	// observed range.
	if s.Mean < s.Min {
		s.Mean = s.Min
	} else if s.Mean > s.Max {
		s.Mean = s.Max
	}
	if m2 > 0 {
		s.StdDev = math.Sqrt(m2/float64(len(nums))) * scale
	}
	return s
}
