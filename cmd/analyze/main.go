package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/double-bubble-api-go/pkg/config"
	"github.com/arnavshah/double-bubble-api-go/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outDir     string
	configFile string
	logLevel   string
	parallel   int
	params     map[string]string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "analyze [file.csv...]",
	Short: "Flag double-bubble and deviating shifts in attendance exports",
	Long: `Reads one or more attendance CSV files (hourly grid or start/end layout),
runs the double-bubble analysis on each file independently and writes one
<name>-flagged.csv export per input.

Parameters default to the configured analysis section and can be overridden
with --param, e.g.

  analyze jan.csv feb.csv --param rest_threshold_hours=10 --param baseline_mode=all`,
	Args: cobra.MinimumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(logLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		reports, err := analyzeFiles(cmd.Context(), args, cfg.Analysis, params, outDir, parallel)
		if err != nil {
			return err
		}
		printReports(cmd.OutOrStdout(), reports)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory for the flagged exports")
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file (default ./config/config.yaml or ./config.yaml)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level")
	rootCmd.Flags().IntVarP(&parallel, "parallel", "p", 4, "files analyzed concurrently")
	rootCmd.Flags().StringToStringVar(&params, "param", nil, "analysis parameter override key=value (repeatable)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
