package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/KaramelBytes/tabclean-cli/internal/analysis"
	"github.com/KaramelBytes/tabclean-cli/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	pbFlags   runFlags
	pbOutDir  string
	pbWorkers int
	pbQuiet   bool
)

var profileBatchCmd = &cobra.Command{
	Use:   "profile-batch <files...>",
	Short: "Profile multiple CSV/TSV/XLSX/JSON files concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		in, opt, format, err := pbFlags.resolve(cmd)
		if err != nil {
			return err
		}
		workers := config().Workers
		if cmd.Flags().Changed("workers") {
			workers = pbWorkers
		}
		if workers < 1 {
			return fmt.Errorf("invalid --workers: %d", workers)
		}

		total := len(files)
		reports := make([]*analysis.Report, total)
		stderr := cmd.ErrOrStderr()
		var mu sync.Mutex
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(workers)
		for i, path := range files {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if !pbQuiet {
					mu.Lock()
					fmt.Fprintf(stderr, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
					mu.Unlock()
				}
				rep, err := profileFile(path, in, opt)
				if err != nil {
					return err
				}
				reports[i] = rep
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if pbOutDir != "" {
			if err := utils.EnsureDir(pbOutDir); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		for _, rep := range reports {
			out, err := render(rep, format)
			if err != nil {
				return err
			}
			if pbOutDir == "" {
				if _, err := cmd.OutOrStdout().Write(out); err != nil {
					return err
				}
				continue
			}
			base := strings.TrimSuffix(rep.Name, filepath.Ext(rep.Name))
			outFile, err := utils.UniquePath(pbOutDir, base, reportExt(format))
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(outFile, out); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !pbQuiet {
				fmt.Fprintf(stderr, "✓ Wrote %s (%d rows, %d kept)\n", outFile, rep.Rows, rep.Kept)
			}
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths into a sorted, de-duplicated list.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, errors.New("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	rootCmd.AddCommand(profileBatchCmd)
	pbFlags.register(profileBatchCmd, true)
	profileBatchCmd.Flags().StringVar(&pbOutDir, "out-dir", "", "directory to write one report per input (default stdout)")
	profileBatchCmd.Flags().IntVar(&pbWorkers, "workers", 4, "number of files profiled concurrently (default from config)")
	profileBatchCmd.Flags().BoolVar(&pbQuiet, "quiet", false, "suppress progress and non-essential output")
}
