package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"wconcept/bestcrawl/internal/applog"
	"wconcept/bestcrawl/internal/config"
	"wconcept/bestcrawl/internal/report"
)

var (
	configFile string

	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "bestcrawl",
	Short: "W Concept best ranking exporter and brand report generator",
	Long: `bestcrawl exports W Concept best rankings per category into dated CSV
snapshots, keeping only the configured brands, and builds daily, weekly and
monthly markdown reports from those snapshots.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded

		closer, err := applog.Setup(log.StandardLogger(), applog.Options{
			Name:              cfg.Log.Name,
			Dir:               cfg.Log.Dir,
			Debug:             cfg.Log.Debug,
			MaxAge:            cfg.Log.MaxAgeDays,
			EnableCriticalLog: cfg.Log.CriticalLog,
			EnableConsoleLog:  cfg.Log.Console,
			Fields:            log.Fields{"run_id": applog.NewRunID(), "command": cmd.Name()},
		})
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		logCloser = closer
		log.Debug("Configuration loaded successfully")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		switch {
		case errors.Is(err, report.ErrNoData):
			fmt.Fprintln(os.Stderr, "✗ 데이터가 없습니다.")
		case errors.Is(err, report.ErrInvalidPeriod):
			fmt.Fprintf(os.Stderr, "✗ 잘못된 기간입니다: %v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		}
		log.Errorf("❌ Command failed: %v", err)
		if logCloser != nil {
			_ = logCloser.Close()
		}
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default ./config.yaml)")
	pf.String("output-dir", "", "root directory for snapshots and reports")
	pf.Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(exportCmd, reportCmd, categoriesCmd)
}
