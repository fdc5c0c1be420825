package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mergington/activities/internal/loadtest"
	"github.com/mergington/activities/pkg/logger"
)

// Default configuration constants.
const (
	defaultStudents    = 200
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultTestTimeout = 5 * time.Minute
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &loadtest.Config{}
	var (
		logFormat string
		logFile   string
	)

	cmd := &cobra.Command{
		Use:   "signup-load",
		Short: "Hammer an activities server with concurrent signups and verify rosters",
		Long: `signup-load signs up a batch of generated students to one activity
concurrently, checks each appears exactly once, removes them all
concurrently, and checks the roster is back to where it started.`,
		Example: `  signup-load --url http://localhost:8000 --activity "Chess Club" --students 500 --workers 16`,
		SilenceUsage: true,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if err := logger.InitWithOptions(logger.Options{Format: logFormat, File: logFile}); err != nil {
				return err
			}
			if cfg.Verbose {
				logger.SetLevel(slog.LevelDebug)
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, defaultTestTimeout)
			defer cancel()

			_, err := loadtest.Run(ctx, cfg)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.BaseURL, "url", "http://localhost:8000", "Base URL of the service")
	flags.StringVar(&cfg.Activity, "activity", "Chess Club", "Activity whose roster is exercised")
	flags.IntVar(&cfg.Students, "students", defaultStudents, "Number of generated students")
	flags.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
	flags.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every request")
	flags.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	flags.StringVar(&logFile, "log-file", "", "Also write logs to this rotating file")

	return cmd
}
