package main

import (
	"log"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "fdprog [command]",
	Short: "fdprog: file I/O progress watcher",
	Long:  `fdprog watches running processes and reports how far each one has progressed through reads and writes on its open files.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
