package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtest/config"
)

var configCmd = &cobra.Command{
	Use:   "config [path]",
	Short: "Write a default configuration file",
	Long:  `Config writes a default run configuration (YAML or JSON by extension) to the given path.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "backtest.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.Default().SaveToFile(path); err != nil {
			return err
		}
		fmt.Printf("wrote default config to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
