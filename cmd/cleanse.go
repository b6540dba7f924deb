package cmd

import (
	"bytes"
	"fmt"

	"github.com/KaramelBytes/tabclean-cli/internal/ingest"
	"github.com/KaramelBytes/tabclean-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	clnFlags      runFlags
	clnOutputPath string
	clnReportPath string
)

var cleanseCmd = &cobra.Command{
	Use:   "cleanse <file>",
	Short: "Trim cells and drop empty rows, writing the result as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, opt, format, err := clnFlags.resolve(cmd)
		if err != nil {
			return err
		}
		opt.Cleanse = true
		rep, err := profileFile(args[0], in, opt)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := ingest.WriteCSV(&buf, rep.Dataset()); err != nil {
			return err
		}
		if clnOutputPath != "" {
			if err := utils.SafeWriteFile(clnOutputPath, buf.Bytes()); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		} else if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return err
		}

		if clnReportPath != "" {
			out, err := render(rep, format)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(clnReportPath, out); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Kept %d/%d rows\n", rep.Kept, rep.Rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanseCmd)
	clnFlags.register(cleanseCmd, false)
	cleanseCmd.Flags().StringVarP(&clnOutputPath, "output", "o", "", "path to write the cleansed CSV (default stdout)")
	cleanseCmd.Flags().StringVar(&clnReportPath, "report", "", "optional path to write the profile report")
}
