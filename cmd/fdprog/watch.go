package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fdprog/internal/app"
	"fdprog/internal/config"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	watchInterval float64
	watchVerbose  bool
	watchOnce     bool
	watchPIDs     []int
	watchCommands []string
	watchIgnore   []string
)

func init() {
	rootCmd.AddCommand(cmdWatch)
	addScanFlags(cmdWatch)
	cmdWatch.Flags().BoolVar(&watchOnce, "once", false, "Report a single diff after one interval and exit")
}

// addScanFlags registers the collector flags shared by watch and monitor.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&watchInterval, "interval", "i", 2, "Poll interval in seconds (fractional values accepted)")
	cmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Log skipped processes and descriptors")
	cmd.Flags().IntSliceVarP(&watchPIDs, "pid", "p", nil, "Only watch the given pid (repeatable)")
	cmd.Flags().StringSliceVarP(&watchCommands, "command", "c", nil, "Only watch processes with this command name (repeatable)")
	cmd.Flags().StringSliceVar(&watchIgnore, "ignore", nil, "Skip descriptors whose path starts with this prefix (repeatable)")
}

// buildConfig layers defaults, the optional config file, environment
// overrides, and finally explicit flags.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("interval") {
		if watchInterval <= 0 {
			return cfg, errors.New("interval must be > 0")
		}
		cfg.Interval = time.Duration(watchInterval * float64(time.Second))
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = watchVerbose
	}
	if len(watchPIDs) > 0 {
		cfg.PIDs = watchPIDs
	}
	if len(watchCommands) > 0 {
		cfg.Commands = watchCommands
	}
	if len(watchIgnore) > 0 {
		cfg.Ignore = watchIgnore
	}
	return cfg, nil
}

var cmdWatch = &cobra.Command{
	Use:   "watch",
	Short: "Poll processes and print progress lines",
	Long:  `Polls the process table at a fixed interval and prints one timestamped line per descriptor that moved, plus a line when a tracked descriptor closes. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd)
		if err != nil {
			return err
		}
		ctrl := app.New(app.Options{Config: cfg})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if watchOnce {
			return ctrl.Once(ctx)
		}

		var spin *spinner.Spinner
		if isatty.IsTerminal(os.Stdout.Fd()) {
			spin = spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(os.Stderr))
			spin.Suffix = " collecting baseline..."
			spin.Start()
		}
		store, err := ctrl.Baseline()
		if spin != nil {
			spin.Stop()
		}
		if err != nil {
			return err
		}
		return ctrl.Watch(ctx, store)
	},
}
