// Package strategies contains the trading rules the backtester can replay:
// SMA crossover, momentum, and mean reversion. Each rule precomputes its
// indicator series once over the full history, then is evaluated as a pure
// function of (bar index, position state, policy) with no hidden state.
package strategies

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/backtest/market"
	"github.com/rustyeddy/backtest/sim"
)

// Action is what a strategy wants done on a bar.
type Action int8

const (
	Hold Action = iota
	EnterLong
	EnterShort
	Exit
)

// Signal is the transient trade intent a strategy yields for one bar. Size is
// meaningful for the Enter actions only; Exit always trades the full holding.
type Signal struct {
	Action Action
	Size   sim.OrderSize
}

var hold = Signal{Action: Hold}

// Strategy is evaluated once per bar from Warmup() to the last bar.
//
// Init precomputes indicator series over the full history and validates the
// window parameters against the series length. Warmup returns the first
// tradable bar index: bars before it produce no signals because the rolling
// indicators are not yet fully defined there.
type Strategy interface {
	Name() string
	Init(s *market.Series) error
	Warmup() int
	Evaluate(i int, pos sim.Position, policy sim.Policy) Signal
}

// ByName constructs a strategy from a CLI-style name. Window parameters are
// picked per strategy: fast/slow for sma-cross, window for momentum and
// mean-reversion, threshold for mean-reversion.
func ByName(name string, fast, slow, window int, threshold float64) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sma", "sma-cross", "smacross":
		return NewSMACross(SMACrossConfig{Fast: fast, Slow: slow}), nil

	case "momentum", "mom":
		return NewMomentum(MomentumConfig{Window: window}), nil

	case "meanrev", "mean-reversion", "meanreversion":
		return NewMeanReversion(MeanReversionConfig{Window: window, Threshold: threshold}), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: sma-cross, momentum, meanrev)", name)
	}
}

func checkWindow(name string, window, seriesLen int) error {
	if window <= 0 {
		return fmt.Errorf("%s: window must be positive, got %d", name, window)
	}
	if window >= seriesLen {
		return fmt.Errorf("%s: window %d must be smaller than series length %d", name, window, seriesLen)
	}
	return nil
}
