package backtest

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/backtest/market"
	"github.com/rustyeddy/backtest/sim"
	"github.com/rustyeddy/backtest/strategies"
)

// seriesOf builds a daily series from raw prices. The first raw observation
// only seeds the return of the second, so the series has len(prices)-1 bars.
func seriesOf(t *testing.T, prices []float64) *market.Series {
	t.Helper()
	base := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, len(prices))
	for i := range dates {
		dates[i] = base.AddDate(0, 0, i)
	}
	s, err := market.NewSeries("TEST", dates, prices)
	require.NoError(t, err)
	return s
}

func rising(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func falling(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(n - i)
	}
	return out
}

func TestRunSMACrossMonotonicRise(t *testing.T) {
	t.Parallel()

	// 301 raw observations give 300 bars with prices 2..301. On a monotonic
	// rise the fast SMA is above the slow SMA on every tradable bar, so the
	// only fills are the entry at the warm-up bar and the terminal close-out.
	series := seriesOf(t, rising(301))

	r := &Runner{
		Series:         series,
		Strategy:       strategies.NewSMACross(strategies.SMACrossConfig{Fast: 5, Slow: 20}),
		InitialCapital: 10000,
	}
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Fills, 2)
	assert.Equal(t, res.Trades, len(res.Fills))

	entry, exit := res.Fills[0], res.Fills[1]
	assert.Equal(t, sim.Buy, entry.Side)
	assert.Equal(t, 22.0, entry.Price) // bar index 20
	assert.Equal(t, 454, entry.Units)  // int(10000 / 22)

	assert.Equal(t, sim.Sell, exit.Side)
	assert.Equal(t, 301.0, exit.Price)
	assert.Equal(t, series.Last().Date, exit.Date)

	// Zero costs: final balance is exactly cash after buy plus the
	// liquidation proceeds.
	assert.InDelta(t, 10000-454*22+454*301, res.FinalBalance, 1e-9)
	assert.Greater(t, res.NetPerformancePct, 0.0)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "sma-cross", res.Strategy)
	assert.Equal(t, "TEST", res.Instrument)
}

func TestRunNoSignalsNoTrades(t *testing.T) {
	t.Parallel()

	// Long-only on a monotonic fall never enters, and a close-out from flat
	// must not count as a trade.
	series := seriesOf(t, falling(301))

	r := &Runner{
		Series:         series,
		Strategy:       strategies.NewSMACross(strategies.SMACrossConfig{Fast: 5, Slow: 20}),
		InitialCapital: 10000,
	}
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.Fills)
	assert.Equal(t, 0, res.Trades)
	assert.Equal(t, 10000.0, res.FinalBalance)
	assert.Equal(t, 0.0, res.NetPerformancePct)
}

func TestRunMomentumRise(t *testing.T) {
	t.Parallel()

	series := seriesOf(t, rising(100))

	r := &Runner{
		Series:         series,
		Strategy:       strategies.NewMomentum(strategies.MomentumConfig{Window: 3}),
		InitialCapital: 10000,
	}
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	// All returns are positive: one entry at warm-up, one terminal close-out.
	require.Len(t, res.Fills, 2)
	assert.Equal(t, sim.Buy, res.Fills[0].Side)
	assert.Equal(t, sim.Sell, res.Fills[1].Side)
	assert.Greater(t, res.NetPerformancePct, 0.0)
}

func TestRunMeanReversionOscillation(t *testing.T) {
	t.Parallel()

	// Prices alternate 106/94 so the window-2 SMA is pinned at 100. With a
	// threshold of 5 every tradable bar is outside a band, so the position
	// flips on every bar after the first entry. Each flip is a close fill
	// plus an open fill on the same bar.
	prices := []float64{100}
	for i := 0; i < 8; i++ {
		if i%2 == 0 {
			prices = append(prices, 106)
		} else {
			prices = append(prices, 94)
		}
	}
	series := seriesOf(t, prices)

	r := &Runner{
		Series:         series,
		Strategy:       strategies.NewMeanReversion(strategies.MeanReversionConfig{Window: 2, Threshold: 5}),
		Policy:         sim.Policy{AllowShort: true},
		InitialCapital: 10000,
	}
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	// Bars 2..7 trade: one entry fill, then five flips of two fills each,
	// then the terminal close-out.
	require.Len(t, res.Fills, 12)
	assert.Equal(t, res.Trades, len(res.Fills))

	first := res.Fills[0]
	assert.Equal(t, sim.Sell, first.Side)
	assert.Equal(t, 106.0, first.Price)
	assert.Equal(t, 94, first.Units) // int(10000 / 106)

	for i := 1; i < 11; i += 2 {
		assert.Equal(t, res.Fills[i].Date, res.Fills[i+1].Date, "flip at fills %d,%d", i, i+1)
	}
}

func TestRunDeterministic(t *testing.T) {
	t.Parallel()

	series := seriesOf(t, rising(120))

	run := func() Result {
		r := &Runner{
			Series:         series,
			Strategy:       strategies.NewSMACross(strategies.SMACrossConfig{Fast: 5, Slow: 20}),
			InitialCapital: 10000,
			Costs:          sim.Costs{Fixed: 1, Proportional: 0.005},
		}
		res, err := r.Run(context.Background())
		require.NoError(t, err)
		return res
	}

	a, b := run(), run()
	assert.Equal(t, a.FinalBalance, b.FinalBalance)
	assert.Equal(t, a.Trades, b.Trades)
	assert.Equal(t, len(a.Fills), len(b.Fills))
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestRunValidation(t *testing.T) {
	t.Parallel()

	series := seriesOf(t, rising(100))

	t.Run("nil strategy", func(t *testing.T) {
		t.Parallel()
		r := &Runner{Series: series, InitialCapital: 10000}
		_, err := r.Run(context.Background())
		assert.Error(t, err)
	})

	t.Run("nil series", func(t *testing.T) {
		t.Parallel()
		r := &Runner{
			Strategy:       strategies.NewMomentum(strategies.MomentumConfig{Window: 3}),
			InitialCapital: 10000,
		}
		_, err := r.Run(context.Background())
		assert.ErrorIs(t, err, market.ErrInvalidRange)
	})

	t.Run("non-positive capital", func(t *testing.T) {
		t.Parallel()
		r := &Runner{
			Series:   series,
			Strategy: strategies.NewMomentum(strategies.MomentumConfig{Window: 3}),
		}
		_, err := r.Run(context.Background())
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("bad costs", func(t *testing.T) {
		t.Parallel()
		r := &Runner{
			Series:         series,
			Strategy:       strategies.NewMomentum(strategies.MomentumConfig{Window: 3}),
			InitialCapital: 10000,
			Costs:          sim.Costs{Proportional: 1.5},
		}
		_, err := r.Run(context.Background())
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("bad window", func(t *testing.T) {
		t.Parallel()
		r := &Runner{
			Series:         series,
			Strategy:       strategies.NewMomentum(strategies.MomentumConfig{Window: 0}),
			InitialCapital: 10000,
		}
		_, err := r.Run(context.Background())
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{
		Series:         seriesOf(t, rising(100)),
		Strategy:       strategies.NewMomentum(strategies.MomentumConfig{Window: 3}),
		InitialCapital: 10000,
	}
	_, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunVerboseOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := &Runner{
		Series:         seriesOf(t, rising(100)),
		Strategy:       strategies.NewSMACross(strategies.SMACrossConfig{Fast: 5, Slow: 20}),
		InitialCapital: 10000,
		Verbose:        true,
		Out:            &buf,
	}
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Running sma-cross strategy")
	assert.Contains(t, out, "buying")
	assert.Contains(t, out, "Final balance   [$]")
	assert.Contains(t, out, "Trades Executed [#]")
}
