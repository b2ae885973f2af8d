// Package cmd defines the CLI surface of the heatpump-monitor executable.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mbeckert/heatpump-monitor/internal/app"
	"github.com/mbeckert/heatpump-monitor/internal/config"
	"github.com/mbeckert/heatpump-monitor/internal/fetcher"
	"github.com/mbeckert/heatpump-monitor/internal/logging"
	"github.com/mbeckert/heatpump-monitor/internal/notify"
	"github.com/mbeckert/heatpump-monitor/internal/state"
)

var (
	cfgFile   string
	stateFile string
	simulate  bool
	debug     bool
)

// newRootCmd creates and configures the root command. The monitor is a
// one-shot process driven by cron, so everything hangs off the root: a
// normal invocation runs the check-and-notify pass, --simulate sends one
// fabricated notification instead.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heatpump-monitor",
		Short: "Watches the heat pump's error list and mails new entries",
		Long: `heatpump-monitor fetches the error list from the heat pump's ISG web
interface, compares it against the previously saved baseline, and sends an
email for any new entries. Designed to be run periodically via cron; state
between runs lives in a single JSON baseline file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMonitor,
	}

	cmd.Flags().StringVar(&cfgFile, "config", "config.ini", "path to the INI configuration file")
	cmd.Flags().StringVar(&stateFile, "state", "", "path to the baseline file (default: state.json next to the config)")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "send a test email with a fake error entry (no fetch)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	return cmd
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	logger, err := logging.New(debug)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "ERROR: Could not initialize logger: %v\n", err)
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "ERROR: Could not load configuration: %v\n", err)
		return err
	}

	monitor := app.New(
		cfg,
		fetcher.New(fetcher.Config{Timeout: cfg.Monitor.Timeout()}, logger),
		state.NewStore(resolveStatePath()),
		notify.NewMailer(cfg.SMTP, logger),
		logger,
		cmd.OutOrStdout(),
		cmd.ErrOrStderr(),
	)

	if simulate {
		return monitor.Simulate(cmd.Context())
	}
	_, err = monitor.Run(cmd.Context())
	return err
}

// resolveStatePath keeps the baseline next to the config unless --state
// overrides it.
func resolveStatePath() string {
	if stateFile != "" {
		return stateFile
	}
	return filepath.Join(filepath.Dir(cfgFile), "state.json")
}

// Execute is the main entry point. Diagnostics have already been written by
// the run itself, so a failure only needs to map to a non-zero exit.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
