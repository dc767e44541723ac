package main

import (
	"fdprog/internal/app"
	"fdprog/internal/tui"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdMonitor)
	addScanFlags(cmdMonitor)
}

var cmdMonitor = &cobra.Command{
	Use:   "monitor",
	Short: "Full-screen live view of active transfers",
	Long:  `Opens an alternate-screen view that refreshes every poll interval, showing a progress bar, rate and ETA for each descriptor currently moving.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd)
		if err != nil {
			return err
		}
		ctrl := app.New(app.Options{Config: cfg})
		return tui.Run(ctrl.Scanner(), ctrl.Interval())
	},
}
