// Package backtest drives a strategy over a market series: it owns the
// per-run state, the bar loop, and the terminal close-out, and reduces a run
// to a Result summary.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rustyeddy/backtest/journal"
	"github.com/rustyeddy/backtest/market"
	"github.com/rustyeddy/backtest/pkg/id"
	"github.com/rustyeddy/backtest/sim"
	"github.com/rustyeddy/backtest/strategies"
)

// ErrInvalidParameter marks run parameters rejected before the loop starts:
// bad windows, out-of-range cost terms, non-positive capital. The engine
// never substitutes defaults for a bad parameter.
var ErrInvalidParameter = errors.New("backtest: invalid parameter")

// Runner configures one backtest run. Run constructs all mutable state
// (ledger, engine, position controller) fresh, so a single Runner value, or
// many Runners sharing one Series, can execute runs in parallel as long as
// each call gets its own Strategy value.
type Runner struct {
	Series   *market.Series
	Strategy strategies.Strategy
	Policy   sim.Policy

	InitialCapital float64
	Costs          sim.Costs

	// Verbose enables the run banner and per-fill narration on Out
	// (default os.Stdout).
	Verbose bool
	Out     io.Writer

	// Journal, when set, receives every fill and the run summary.
	Journal journal.Journal
}

// Result is the summary of a completed run.
type Result struct {
	RunID      string
	Strategy   string
	Instrument string

	Start time.Time
	End   time.Time

	InitialCapital    float64
	FinalBalance      float64
	NetPerformancePct float64
	Trades            int

	Fills []sim.Fill
}

// Run executes the backtest loop: validate parameters, precompute indicators,
// then evaluate the strategy once per bar from the warm-up index to the last
// bar, routing intents through the position controller into the execution
// engine. Any open position is force-closed at the final bar.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Strategy == nil {
		return Result{}, fmt.Errorf("backtest: Strategy is required")
	}
	if r.Series == nil || r.Series.Len() == 0 {
		return Result{}, fmt.Errorf("backtest: empty series: %w", market.ErrInvalidRange)
	}
	if r.InitialCapital <= 0 {
		return Result{}, fmt.Errorf("%w: initial capital must be positive, got %v", ErrInvalidParameter, r.InitialCapital)
	}
	if err := r.Costs.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	if err := r.Strategy.Init(r.Series); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}

	out := r.Out
	if out == nil {
		out = os.Stdout
	}

	runID := id.New()

	engine := sim.NewEngine(r.InitialCapital, r.Costs)
	if r.Verbose {
		engine.SetNarration(out)
		r.banner(out)
	}
	if r.Journal != nil {
		engine.SetJournal(r.Journal, runID)
	}

	ctrl := sim.NewController(r.Policy)

	for i := r.Strategy.Warmup(); i < r.Series.Len(); i++ {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		bar := r.Series.Bar(i)
		sig := r.Strategy.Evaluate(i, ctrl.Position(), r.Policy)

		var err error
		switch sig.Action {
		case strategies.EnterLong:
			err = ctrl.GoLong(engine, bar, sig.Size)
		case strategies.EnterShort:
			err = ctrl.GoShort(engine, bar, sig.Size)
		case strategies.Exit:
			err = ctrl.Exit(engine, bar)
		}
		if err != nil {
			return Result{}, fmt.Errorf("bar %d (%s): %w", i, bar.Date.Format("2006-01-02"), err)
		}
	}

	last := r.Series.Last()
	if _, _, err := ctrl.CloseOut(engine, last); err != nil {
		return Result{}, fmt.Errorf("close out: %w", err)
	}

	ledger := engine.Ledger()
	res := Result{
		RunID:             runID,
		Strategy:          r.Strategy.Name(),
		Instrument:        r.Series.Instrument,
		Start:             r.Series.First().Date,
		End:               last.Date,
		InitialCapital:    r.InitialCapital,
		FinalBalance:      ledger.Cash,
		NetPerformancePct: (ledger.Cash - r.InitialCapital) / r.InitialCapital * 100,
		Trades:            ledger.Trades,
		Fills:             engine.Fills(),
	}

	if r.Verbose {
		PrintResult(out, res)
	}

	if r.Journal != nil {
		cfg := r.strategyConfig()
		err := r.Journal.RecordRun(journal.RunRecord{
			RunID:          runID,
			Created:        time.Now().UTC(),
			Instrument:     res.Instrument,
			Strategy:       res.Strategy,
			Config:         cfg,
			Start:          res.Start,
			End:            res.End,
			InitialCapital: res.InitialCapital,
			FinalBalance:   res.FinalBalance,
			ReturnPct:      res.NetPerformancePct,
			Trades:         res.Trades,
		})
		if err != nil {
			return Result{}, fmt.Errorf("record run: %w", err)
		}
	}

	return res, nil
}

func (r *Runner) banner(w io.Writer) {
	fmt.Fprintf(w, "\nRunning %s strategy | %s\n", r.Strategy.Name(), r.strategyConfig())
	fmt.Fprintf(w, "fixed costs %v | proportional costs %v\n", r.Costs.Fixed, r.Costs.Proportional)
	fmt.Fprintln(w, separator)
}

// strategyConfig returns the strategy's JSON parameters when it exposes them.
func (r *Runner) strategyConfig() []byte {
	type jsoner interface {
		JSON() ([]byte, error)
	}
	if j, ok := r.Strategy.(jsoner); ok {
		if b, err := j.JSON(); err == nil {
			return b
		}
	}
	return nil
}
