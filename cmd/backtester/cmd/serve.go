package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtest/internal/api"
	"github.com/rustyeddy/backtest/journal"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve backtests over an HTTP API",
	Long: `Serve starts an HTTP server exposing the backtest engine.

Endpoints:
  GET  /health
  POST /api/v1/backtest   run a backtest over a series supplied in the request`,
	RunE: runServe,
}

var (
	serveAddr   string
	serveDBPath string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "listen address")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "journal API runs to this SQLite DB")
}

func runServe(cmd *cobra.Command, args []string) error {
	var j journal.Journal
	if serveDBPath != "" {
		sq, err := journal.NewSQLite(serveDBPath)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer sq.Close()
		j = sq
	}

	router := api.NewRouter(j)

	log.Printf("backtester API listening on %s", serveAddr)
	return router.Run(serveAddr)
}
