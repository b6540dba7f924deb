package analysis

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

func scenarioDataset() Dataset {
	return Dataset{
		Header: []string{"a", "b"},
		Rows:   []Row{{"1", "2"}, {"  3 ", "4"}, {"", ""}},
	}
}

func TestRunCleansesAndKeepsRawProfile(t *testing.T) {
	ds := scenarioDataset()
	rep := Run("scenario.csv", ds, DefaultOptions())

	if rep.Rows != 3 || rep.Kept != 2 || rep.Dropped != 1 || !rep.Cleansed {
		t.Fatalf("counts = rows %d kept %d dropped %d cleansed %v", rep.Rows, rep.Kept, rep.Dropped, rep.Cleansed)
	}
	if len(rep.Raw) != 2 || len(rep.Profile) != 2 {
		t.Fatalf("profiles = raw %d final %d", len(rep.Raw), len(rep.Profile))
	}
	if !almostEqual(rep.Profile[0].Completeness, 100, 1e-9) {
		t.Fatalf("final completeness = %f", rep.Profile[0].Completeness)
	}
	if !almostEqual(rep.Raw[0].Completeness, 200.0/3.0, 1e-9) {
		t.Fatalf("raw completeness = %f", rep.Raw[0].Completeness)
	}
	if len(rep.Dataset().Rows) != 2 {
		t.Fatalf("final dataset rows = %d", len(rep.Dataset().Rows))
	}
	if ds.Rows[1][0] != "  3 " {
		t.Fatalf("input dataset mutated")
	}
	if len(rep.Preview) != 2 || !equalStrings(rep.Preview[1], []string{"3", "4"}) {
		t.Fatalf("preview = %#v", rep.Preview)
	}

	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: scenario.csv",
		"Rows: 3 (kept 2 after cleansing)",
		"Columns: 2",
		"| a | 100.00% | 2 | Yes | Mean: 2.00, SD: 1.00, Min: 1, Max: 3 |",
		"[RAW PROFILE]",
		"| a | 66.67% | 2 | Yes |",
		"[PREVIEW]",
		"| a | b |",
		"| 3 | 4 |",
		"[NOTES]",
		"dropped 1 all-empty rows during cleansing",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRunWithoutCleanse(t *testing.T) {
	opt := DefaultOptions()
	opt.Cleanse = false
	opt.PreviewRows = 1
	rep := Run("raw.csv", scenarioDataset(), opt)
	if rep.Cleansed || rep.Raw != nil || rep.Kept != 3 || rep.Dropped != 0 {
		t.Fatalf("unexpected cleanse state: %#v", rep)
	}
	if len(rep.Preview) != 1 || rep.Preview[0][0] != "1" {
		t.Fatalf("preview = %#v", rep.Preview)
	}
	md := rep.Markdown()
	if strings.Contains(md, "[RAW PROFILE]") {
		t.Fatalf("raw section should be absent:\n%s", md)
	}
	if !strings.Contains(md, "Rows: 3\n") {
		t.Fatalf("markdown missing plain row count:\n%s", md)
	}
}

func TestRunNotesDegenerateInput(t *testing.T) {
	rep := Run("empty.csv", Dataset{Header: []string{"x"}}, DefaultOptions())
	if len(rep.Warnings) != 1 || rep.Warnings[0] != "no data rows; completeness reported as 0" {
		t.Fatalf("warnings = %#v", rep.Warnings)
	}
	if rep.Profile[0].Completeness != 0 {
		t.Fatalf("completeness = %f", rep.Profile[0].Completeness)
	}

	wide := Run("wide.csv", Dataset{Header: []string{"x"}, Rows: []Row{{"1", "extra"}}}, DefaultOptions())
	if len(wide.Warnings) != 1 || !strings.Contains(wide.Warnings[0], "1 rows have more cells than the header") {
		t.Fatalf("warnings = %#v", wide.Warnings)
	}

	none := Run("none.csv", Dataset{}, DefaultOptions())
	if !strings.Contains(none.Markdown(), "(no columns)") {
		t.Fatalf("markdown should note missing columns:\n%s", none.Markdown())
	}
}

func TestReportJSONOmitsStatsForText(t *testing.T) {
	ds := Dataset{Header: []string{"n", "t"}, Rows: []Row{{1.5, "Yes"}, {2.5, "yes"}}}
	b, err := Run("mixed.json", ds, DefaultOptions()).JSON()
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var out struct {
		Profile []map[string]any `json:"profile"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Profile) != 2 {
		t.Fatalf("profile entries = %d", len(out.Profile))
	}
	if _, ok := out.Profile[0]["stats"]; !ok {
		t.Fatalf("numeric column missing stats: %s", b)
	}
	if _, ok := out.Profile[1]["stats"]; ok {
		t.Fatalf("text column has stats: %s", b)
	}
	if out.Profile[1]["uniqueness"].(float64) != 1 {
		t.Fatalf("text uniqueness = %v", out.Profile[1]["uniqueness"])
	}
}

func TestReportJSONEncodesInfinities(t *testing.T) {
	ds := Dataset{Header: []string{"big", "mixed"}, Rows: []Row{
		{"Infinity", "Infinity"},
		{"1", "-Infinity"},
		{"2", "1"},
	}}
	rep := Run("inf.csv", ds, DefaultOptions())
	b, err := rep.JSON()
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(string(b), `"mean": "Infinity"`) {
		t.Fatalf("expected infinite mean encoded as string:\n%s", b)
	}

	var back Report
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s := back.Profile[0].Stats
	if s == nil || !math.IsInf(s.Mean, 1) || !math.IsInf(s.Max, 1) || s.Min != 1 {
		t.Fatalf("decoded stats = %#v", s)
	}
	if back.Profile[1].Stats != nil || !back.Profile[1].IsNumeric {
		t.Fatalf("mixed column = %#v", back.Profile[1])
	}

	md := rep.Markdown()
	for _, want := range []string{
		"| mixed | 100.00% | 3 | Yes | undefined |",
		`column "mixed" holds both +Infinity and -Infinity; stats omitted`,
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestPreviewTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 60) + strings.Repeat("漢", 30)
	rep := Run("names.csv", Dataset{Header: []string{"name"}, Rows: []Row{{long}}}, DefaultOptions())
	md := rep.Markdown()
	if !utf8.ValidString(md) {
		t.Fatalf("markdown is not valid UTF-8")
	}
	want := strings.Repeat("é", 60) + strings.Repeat("漢", 17) + "..."
	if !strings.Contains(md, "| "+want+" |") {
		t.Fatalf("expected truncated cell %q in:\n%s", want, md)
	}
	if got := truncate("short", 80); got != "short" {
		t.Fatalf("truncate(short) = %q", got)
	}
}

func TestCellText(t *testing.T) {
	cases := []struct {
		in   Cell
		want string
	}{
		{nil, ""},
		{"Hi", "Hi"},
		{1, "1"},
		{1.5, "1.5"},
		{float32(2.5), "2.5"},
		{int64(-3), "-3"},
		{true, "true"},
	}
	for _, c := range cases {
		if got := CellText(c.in); got != c.want {
			t.Errorf("CellText(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
