package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backtester",
	Short: "An event-driven backtesting engine for single-instrument trading strategies",
	Long: `Backtester replays a historical price series bar by bar, applies a trading
rule to decide when to enter and exit a position, and tracks the resulting
cash and portfolio state under fixed and proportional transaction costs.

It provides tools for:
  - Backtesting SMA crossover, momentum, and mean reversion strategies
  - Long-only and long-short position policies
  - Journaling fills and run summaries to SQLite or CSV
  - Serving backtests over an HTTP API`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
