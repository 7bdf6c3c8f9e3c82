package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtest/backtest"
	"github.com/rustyeddy/backtest/config"
	"github.com/rustyeddy/backtest/dataset"
	"github.com/rustyeddy/backtest/journal"
	"github.com/rustyeddy/backtest/sim"
	"github.com/rustyeddy/backtest/strategies"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest over a historical price series",
	Long: `Run replays a CSV price series through a trading strategy and prints the
final balance, net performance and trade count.

Supported strategies:
  - sma-cross: short/long simple moving average crossover (--fast, --slow)
  - momentum:  rolling mean log return sign (--window)
  - meanrev:   deviation from a rolling mean (--window, --threshold)

Example:
  backtester run --data data/eod.csv --symbol AAPL.O --strategy sma-cross --fast 42 --slow 252`,
	RunE: runRun,
}

var (
	runConfigPath string

	runDataPath string
	runSymbol   string
	runStart    string
	runEnd      string

	runStrategy  string
	runFast      int
	runSlow      int
	runWindow    int
	runThreshold float64

	runCapital float64
	runFixed   float64
	runProp    float64
	runShort   bool
	runVerbose bool

	runDBPath    string
	runFillsPath string
	runRunsPath  string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runConfigPath, "config", "", "run from a YAML/JSON config file (other flags ignored)")

	runCmd.Flags().StringVarP(&runDataPath, "data", "d", "", "path to price CSV (Date,SYMBOL,... layout; .xz and .zip accepted)")
	runCmd.Flags().StringVarP(&runSymbol, "symbol", "i", "", "symbol column to backtest")
	runCmd.Flags().StringVar(&runStart, "start", "", "start date (2006-01-02, inclusive)")
	runCmd.Flags().StringVar(&runEnd, "end", "", "end date (2006-01-02, inclusive)")

	runCmd.Flags().StringVarP(&runStrategy, "strategy", "s", "sma-cross", "strategy name (sma-cross, momentum, meanrev)")
	runCmd.Flags().IntVar(&runFast, "fast", 42, "sma-cross: fast SMA window")
	runCmd.Flags().IntVar(&runSlow, "slow", 252, "sma-cross: slow SMA window")
	runCmd.Flags().IntVar(&runWindow, "window", 60, "momentum/meanrev: rolling window")
	runCmd.Flags().Float64Var(&runThreshold, "threshold", 5, "meanrev: deviation threshold")

	runCmd.Flags().Float64VarP(&runCapital, "capital", "b", 10_000, "initial capital")
	runCmd.Flags().Float64Var(&runFixed, "fixed-cost", 0, "fixed transaction cost per fill")
	runCmd.Flags().Float64Var(&runProp, "prop-cost", 0, "proportional transaction cost per fill (in [0,1))")
	runCmd.Flags().BoolVar(&runShort, "short", false, "allow short positions (long-short policy)")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "narrate every fill")

	runCmd.Flags().StringVar(&runDBPath, "db", "", "journal runs and fills to this SQLite DB")
	runCmd.Flags().StringVar(&runFillsPath, "fills-csv", "", "journal fills to this CSV file")
	runCmd.Flags().StringVar(&runRunsPath, "runs-csv", "", "journal runs to this CSV file")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig()
	if err != nil {
		return err
	}

	from, to, err := cfg.Data.ParseRange()
	if err != nil {
		return err
	}

	series, err := dataset.Load(cfg.Data.Path, cfg.Data.Symbol, from, to)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	strat, err := strategies.ByName(cfg.Strategy.Name,
		cfg.Strategy.Fast, cfg.Strategy.Slow, cfg.Strategy.Window, cfg.Strategy.Threshold)
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	j, err := journalFromConfig(cfg.Journal)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	if j != nil {
		defer j.Close()
	}

	runner := &backtest.Runner{
		Series:         series,
		Strategy:       strat,
		Policy:         sim.Policy{AllowShort: cfg.Strategy.AllowShort},
		InitialCapital: cfg.Account.InitialCapital,
		Costs: sim.Costs{
			Fixed:        cfg.Costs.Fixed,
			Proportional: cfg.Costs.Proportional,
		},
		Verbose: cfg.Verbose,
		Out:     os.Stdout,
		Journal: j,
	}

	res, err := runner.Run(context.Background())
	if err != nil {
		return err
	}

	// Verbose runs already printed the summary as part of the narration.
	if !cfg.Verbose {
		backtest.PrintResult(os.Stdout, res)
	}
	return nil
}

// effectiveConfig merges a config file with the flag defaults; flags win when
// no file is given.
func effectiveConfig() (*config.Config, error) {
	if runConfigPath != "" {
		return config.LoadFromFile(runConfigPath)
	}

	cfg := &config.Config{
		Account: config.AccountConfig{InitialCapital: runCapital},
		Costs:   config.CostsConfig{Fixed: runFixed, Proportional: runProp},
		Data: config.DataConfig{
			Path:   runDataPath,
			Symbol: runSymbol,
			Start:  runStart,
			End:    runEnd,
		},
		Strategy: config.StrategyConfig{
			Name:       runStrategy,
			Fast:       runFast,
			Slow:       runSlow,
			Window:     runWindow,
			Threshold:  runThreshold,
			AllowShort: runShort,
		},
		Journal: journalConfigFromFlags(),
		Verbose: runVerbose,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func journalConfigFromFlags() config.JournalConfig {
	switch {
	case runDBPath != "":
		return config.JournalConfig{Type: "sqlite", DBPath: runDBPath}
	case runFillsPath != "" && runRunsPath != "":
		return config.JournalConfig{Type: "csv", FillsFile: runFillsPath, RunsFile: runRunsPath}
	default:
		return config.JournalConfig{Type: "none"}
	}
}

func journalFromConfig(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "", "none":
		return nil, nil
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	case "csv":
		return journal.NewCSV(jc.FillsFile, jc.RunsFile)
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}
