package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	cfgpkg "github.com/KaramelBytes/tabclean-cli/internal/config"
	"github.com/KaramelBytes/tabclean-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile      string
	debug        bool
	flagLogLevel string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Set when the config file could not be loaded and defaults are in use
	cfgLoadErr error
	// Logger tagged with this invocation's run id
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tabclean",
	Short: "tabclean: cleanse and profile CSV/TSV/XLSX datasets",
	Long: `tabclean reads a tabular dataset, trims cell values, removes rows that carry no data,
and reports per-column completeness, distinct counts and numeric summaries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tabclean/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	cfgLoadErr = err
	if err != nil {
		// Non-fatal: fall back to defaults so commands keep working
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	level := cfg.LogLevel
	if f := rootCmd.PersistentFlags(); f.Changed("log-level") && strings.TrimSpace(flagLogLevel) != "" {
		level = flagLogLevel
	}
	if debug {
		level = "debug"
	}
	logging.Setup(os.Stderr, level, cfg.LogFormat)
	log = logging.WithRun(logging.NewRunID())
	log.Debug("config loaded", "output_format", cfg.OutputFormat, "cleanse", cfg.Cleanse, "workers", cfg.Workers)
}

// config returns the loaded configuration, or defaults when none was loaded.
func config() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Defaults()
	}
	return cfg
}

// logger returns the run logger, or the default logger before initialization.
func logger() *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}
