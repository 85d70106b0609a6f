package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wfo",
	Short: "Walk-forward optimization engine for a parameterized trading strategy",
	Long: `wfo partitions a year of OHLCV candles into rolling train/test windows,
runs a genetic algorithm inside each train window against a multi-alpha
regime-aware signal engine, and compounds equity forward across the
untouched test segments.`,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scheduledCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
