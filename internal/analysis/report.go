package analysis

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/tabclean-cli/internal/utils"
)

// Options controls the cleanse/profile pipeline.
type Options struct {
	// Cleanse runs the cleanser before the final profile.
	Cleanse bool
	// PreviewRows is how many rows of the final dataset to include; 0 disables.
	PreviewRows int
}

// DefaultOptions returns reasonable defaults for the pipeline.
func DefaultOptions() Options {
	return Options{
		Cleanse:     true,
		PreviewRows: 10,
	}
}

// Report is the outcome of one pipeline run over a dataset.
type Report struct {
	Name     string `json:"name"`
	Columns  int    `json:"columns"`
	Rows     int    `json:"rows"`
	Kept     int    `json:"kept"`
	Dropped  int    `json:"dropped"`
	Cleansed bool   `json:"cleansed"`
	// Profile describes the final dataset (cleansed when Cleansed is set).
	Profile Profile `json:"profile"`
	// Raw describes the dataset as ingested. Only set when Cleansed.
	Raw      Profile    `json:"raw_profile,omitempty"`
	Preview  [][]string `json:"preview,omitempty"`
	Warnings []string   `json:"warnings,omitempty"`

	data Dataset
}

// Run profiles ds as ingested and, when opt.Cleanse is set, cleanses it and
// profiles the result. ds is not modified.
func Run(name string, ds Dataset, opt Options) *Report {
	rep := &Report{
		Name:    name,
		Columns: ds.Columns(),
		Rows:    len(ds.Rows),
		Kept:    len(ds.Rows),
	}
	raw := ds.Profile()
	final := ds
	if opt.Cleanse {
		final = ds.Cleanse()
		rep.Cleansed = true
		rep.Raw = raw
		rep.Profile = final.Profile()
		rep.Kept = len(final.Rows)
		rep.Dropped = rep.Rows - rep.Kept
	} else {
		rep.Profile = raw
	}
	rep.data = final

	for i := 0; i < len(final.Rows) && i < opt.PreviewRows; i++ {
		row := make([]string, ds.Columns())
		for j := range row {
			row[j] = CellText(cellAt(final.Rows[i], j))
		}
		rep.Preview = append(rep.Preview, row)
	}

	if ds.Columns() == 0 {
		rep.Warnings = append(rep.Warnings, "dataset has no header row")
	}
	if len(ds.Rows) == 0 {
		rep.Warnings = append(rep.Warnings, "no data rows; completeness reported as 0")
	}
	wide := 0
	for _, r := range ds.Rows {
		if len(r) > ds.Columns() {
			wide++
		}
	}
	if wide > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d rows have more cells than the header; extra cells ignored", wide))
	}
	if rep.Dropped > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("dropped %d all-empty rows during cleansing", rep.Dropped))
	}
	for _, c := range rep.Profile {
		if c.IsNumeric && c.Stats == nil {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %q holds both +Infinity and -Infinity; stats omitted", c.Column))
		}
	}
	return rep
}

// Dataset returns the dataset the final profile was computed from.
func (r *Report) Dataset() Dataset { return r.data }

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return utils.PrettyJSON(r)
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Cleansed && r.Dropped > 0 {
		b.WriteString(fmt.Sprintf("Rows: %d (kept %d after cleansing)\n", r.Rows, r.Kept))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", r.Columns))

	b.WriteString("[PROFILE]\n")
	writeProfile(&b, r.Profile)

	if r.Cleansed && !reflect.DeepEqual(r.Raw, r.Profile) {
		b.WriteString("\n[RAW PROFILE]\n")
		writeProfile(&b, r.Raw)
	}

	if len(r.Preview) > 0 {
		b.WriteString("\n[PREVIEW]\n")
		b.WriteString("| ")
		for i, c := range r.Profile {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Column))
		}
		b.WriteString(" |\n| ")
		for i := range r.Profile {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Preview {
			b.WriteString("| ")
			for i, val := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(truncate(val, 80)))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeProfile(b *strings.Builder, p Profile) {
	if len(p) == 0 {
		b.WriteString("(no columns)\n")
		return
	}
	b.WriteString("| Column | Completeness % | Uniqueness | Is Numeric | Stats |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, c := range p {
		numeric := "No"
		stats := ""
		if c.IsNumeric {
			numeric = "Yes"
			stats = "undefined"
		}
		if c.Stats != nil {
			stats = fmt.Sprintf("Mean: %.2f, SD: %.2f, Min: %.4g, Max: %.4g", c.Stats.Mean, c.Stats.StdDev, c.Stats.Min, c.Stats.Max)
		}
		b.WriteString(fmt.Sprintf("| %s | %.2f%% | %d | %s | %s |\n", safeName(c.Column), c.Completeness, c.Uniqueness, numeric, stats))
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return safeVal(s)
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
