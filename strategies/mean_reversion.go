package strategies

import (
	"encoding/json"
	"fmt"

	"github.com/rustyeddy/backtest/indicators"
	"github.com/rustyeddy/backtest/market"
	"github.com/rustyeddy/backtest/sim"
)

// MeanReversion trades deviations of the price from its rolling mean.
//
// Long-only: enter while flat when the price drops below SMA - threshold,
// exit when it recovers to the SMA (>= is the exit, not strictly above).
// Long-short: a drop below SMA - threshold goes long and a rise above
// SMA + threshold goes short, from either side; crossing both bands flips
// the position with a close-then-open pair on the same bar. A long exits at
// price >= SMA, a short at price <= SMA.
//
// Long-only entries use all available cash; long-short entries are budgeted
// at the run's initial capital.
type MeanReversion struct {
	MeanReversionConfig

	prices []float64
	sma    []float64
}

type MeanReversionConfig struct {
	Window    int     `json:"window"`
	Threshold float64 `json:"threshold"`
}

func (c MeanReversionConfig) JSON() ([]byte, error) {
	return json.Marshal(c)
}

func NewMeanReversion(cfg MeanReversionConfig) *MeanReversion {
	return &MeanReversion{MeanReversionConfig: cfg}
}

func (m *MeanReversion) Name() string { return "meanrev" }

func (m *MeanReversion) Warmup() int { return m.Window }

func (m *MeanReversion) Init(series *market.Series) error {
	if err := checkWindow(m.Name(), m.Window, series.Len()); err != nil {
		return err
	}

	m.prices = series.Prices()

	var err error
	if m.sma, err = indicators.RollingMean(m.prices, m.Window); err != nil {
		return fmt.Errorf("%s: %w", m.Name(), err)
	}
	return nil
}

func (m *MeanReversion) Evaluate(i int, pos sim.Position, policy sim.Policy) Signal {
	price := m.prices[i]
	sma := m.sma[i]

	if !policy.AllowShort {
		switch {
		case pos == sim.Flat && price < sma-m.Threshold:
			return Signal{Action: EnterLong, Size: sim.AllCash()}
		case pos == sim.Long && price >= sma:
			return Signal{Action: Exit}
		}
		return hold
	}

	switch {
	case pos != sim.Long && price < sma-m.Threshold:
		return Signal{Action: EnterLong, Size: sim.InitialCash()}
	case pos != sim.Short && price > sma+m.Threshold:
		return Signal{Action: EnterShort, Size: sim.InitialCash()}
	case pos == sim.Long && price >= sma:
		return Signal{Action: Exit}
	case pos == sim.Short && price <= sma:
		return Signal{Action: Exit}
	}
	return hold
}
