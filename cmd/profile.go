package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/tabclean-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/tabclean-cli/internal/config"
	"github.com/KaramelBytes/tabclean-cli/internal/ingest"
	"github.com/KaramelBytes/tabclean-cli/internal/utils"
	"github.com/spf13/cobra"
)

// runFlags are the ingest and pipeline flags shared by profile, cleanse and profile-batch.
type runFlags struct {
	format      string
	noCleanse   bool
	previewRows int
	delimiter   string
	sheetName   string
	sheetIndex  int
}

func (f *runFlags) register(cmd *cobra.Command, withCleanse bool) {
	cmd.Flags().StringVar(&f.format, "format", "", "report format: markdown|json (default from config)")
	if withCleanse {
		cmd.Flags().BoolVar(&f.noCleanse, "no-cleanse", false, "profile the data as ingested, without cleansing")
	}
	cmd.Flags().IntVar(&f.previewRows, "preview-rows", 10, "number of rows to include in the preview (0 disables)")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|'")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// resolve merges config values with the flags the user actually set.
func (f *runFlags) resolve(cmd *cobra.Command) (ingest.Options, analysis.Options, string, error) {
	c := config()
	opt := analysis.Options{Cleanse: c.Cleanse, PreviewRows: c.PreviewRows}
	if cmd.Flags().Changed("no-cleanse") {
		opt.Cleanse = !f.noCleanse
	}
	if cmd.Flags().Changed("preview-rows") {
		if f.previewRows < 0 {
			return ingest.Options{}, opt, "", fmt.Errorf("invalid --preview-rows: %d", f.previewRows)
		}
		opt.PreviewRows = f.previewRows
	}

	delim := c.Delimiter
	if cmd.Flags().Changed("delimiter") {
		delim = f.delimiter
	}
	r, err := cfgpkg.ParseDelimiter(delim)
	if err != nil {
		return ingest.Options{}, opt, "", err
	}
	in := ingest.Options{Delimiter: r, SheetName: strings.TrimSpace(f.sheetName), SheetIndex: f.sheetIndex}

	format := c.OutputFormat
	if cmd.Flags().Changed("format") {
		format = f.format
	}
	format, err = normalizeFormat(format)
	if err != nil {
		return ingest.Options{}, opt, "", err
	}
	return in, opt, format, nil
}

func normalizeFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return "markdown", nil
	case "json":
		return "json", nil
	}
	return "", fmt.Errorf("unsupported --format: %s (use markdown|json)", s)
}

// profileFile ingests path and runs the cleanse/profile pipeline over it.
func profileFile(path string, in ingest.Options, opt analysis.Options) (*analysis.Report, error) {
	ds, err := ingest.ReadFile(path, in)
	if err != nil {
		return nil, err
	}
	rep := analysis.Run(filepath.Base(path), ds, opt)
	logger().Info("dataset profiled",
		"file", rep.Name,
		"rows", rep.Rows,
		"kept", rep.Kept,
		"columns", rep.Columns)
	return rep, nil
}

func render(rep *analysis.Report, format string) ([]byte, error) {
	if format == "json" {
		b, err := rep.JSON()
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", rep.Name, err)
		}
		return append(b, '\n'), nil
	}
	return []byte(rep.Markdown()), nil
}

func reportExt(format string) string {
	if format == "json" {
		return ".profile.json"
	}
	return ".profile.md"
}

var (
	prfFlags      runFlags
	prfOutputPath string
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Cleanse a CSV/TSV/XLSX/JSON dataset and report per-column quality metrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, opt, format, err := prfFlags.resolve(cmd)
		if err != nil {
			return err
		}
		rep, err := profileFile(args[0], in, opt)
		if err != nil {
			return err
		}
		out, err := render(rep, format)
		if err != nil {
			return err
		}
		if prfOutputPath != "" {
			if err := utils.SafeWriteFile(prfOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote profile to %s\n", prfOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	prfFlags.register(profileCmd, true)
	profileCmd.Flags().StringVarP(&prfOutputPath, "output", "o", "", "optional path to write the report")
}
