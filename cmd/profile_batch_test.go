package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProfileBatch_OutDirAvoidsOverwrite(t *testing.T) {
	home := isolate(t)

	// Two CSV files with the same basename in different directories
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	for _, d := range []string{d1, d2} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	writeFile(t, filepath.Join(d1, "metrics.csv"), "col1,col2\nA,1\nB,2\nC,3\n")
	writeFile(t, filepath.Join(d2, "metrics.csv"), "col1,col2\nA,1\n,\n")

	outDir := filepath.Join(home, "reports")
	_, stderr, err := execute(t, "profile-batch", filepath.Join(home, "d*", "metrics.csv"), "--out-dir", outDir, "--workers", "2")
	if err != nil {
		t.Fatalf("profile-batch: %v", err)
	}
	for _, want := range []string{
		"[1/2] Processing metrics.csv...",
		"[2/2] Processing metrics.csv...",
		"metrics.profile.md (3 rows, 3 kept)",
		"metrics__2.profile.md (2 rows, 1 kept)",
	} {
		if !strings.Contains(stderr, want) {
			t.Fatalf("expected %q in progress output:\n%s", want, stderr)
		}
	}

	b1, err := os.ReadFile(filepath.Join(outDir, "metrics.profile.md"))
	if err != nil {
		t.Fatalf("missing first report: %v", err)
	}
	b2, err := os.ReadFile(filepath.Join(outDir, "metrics__2.profile.md"))
	if err != nil {
		t.Fatalf("missing second report: %v", err)
	}
	// sorted input order decides which file gets the suffix
	if !strings.Contains(string(b1), "Rows: 3\n") {
		t.Fatalf("first report should describe d1:\n%s", b1)
	}
	if !strings.Contains(string(b2), "Rows: 2 (kept 1 after cleansing)") {
		t.Fatalf("second report should describe d2:\n%s", b2)
	}
}

func TestProfileBatch_JSONToStdoutQuiet(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "a.csv"), "x\n1\n2\n")
	writeFile(t, filepath.Join(home, "b.csv"), "y\nfoo\n")

	out, stderr, err := execute(t, "profile-batch",
		filepath.Join(home, "*.csv"), filepath.Join(home, "a.csv"),
		"--format", "json", "--quiet")
	if err != nil {
		t.Fatalf("profile-batch: %v", err)
	}
	if stderr != "" {
		t.Fatalf("expected no progress with --quiet, got %q", stderr)
	}
	dec := json.NewDecoder(strings.NewReader(out))
	var names []string
	for dec.More() {
		var rep struct {
			Name string `json:"name"`
		}
		if err := dec.Decode(&rep); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		names = append(names, rep.Name)
	}
	if len(names) != 2 || names[0] != "a.csv" || names[1] != "b.csv" {
		t.Fatalf("unexpected reports (duplicates should collapse): %v", names)
	}
}

func TestProfileBatch_Errors(t *testing.T) {
	home := isolate(t)
	if _, _, err := execute(t, "profile-batch", filepath.Join(home, "nothing-*.csv")); err == nil {
		t.Fatalf("expected error when nothing matches")
	}
	writeFile(t, filepath.Join(home, "ok.csv"), "a\n1\n")
	writeFile(t, filepath.Join(home, "bad.doc"), "irrelevant")
	if _, _, err := execute(t, "profile-batch", filepath.Join(home, "ok.csv"), filepath.Join(home, "bad.doc")); err == nil {
		t.Fatalf("expected error for unsupported input")
	}
	if _, _, err := execute(t, "profile-batch", filepath.Join(home, "ok.csv"), "--workers", "0"); err == nil {
		t.Fatalf("expected error for --workers 0")
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.csv", "a.csv", "c.tsv"} {
		writeFile(t, filepath.Join(dir, n), "h\n")
	}
	got, err := expandInputs([]string{filepath.Join(dir, "*.csv"), filepath.Join(dir, "c.tsv"), filepath.Join(dir, "a.csv")})
	if err != nil {
		t.Fatalf("expandInputs: %v", err)
	}
	want := []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv"), filepath.Join(dir, "c.tsv")}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %v want %v", got, want)
	}
}
