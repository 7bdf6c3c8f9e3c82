package strategies

import (
	"encoding/json"
	"fmt"

	"github.com/rustyeddy/backtest/indicators"
	"github.com/rustyeddy/backtest/market"
	"github.com/rustyeddy/backtest/sim"
)

// Momentum trades the sign of the rolling mean log return.
//
// Long-only: enter while flat when the mean return is positive, exit when it
// is negative (strictly; a zero mean holds). Long-short: enter long on a
// positive mean, flip short on a non-positive one. The long-only exit uses
// `< 0` while the long-short flip uses `<= 0`; the asymmetry is intentional.
type Momentum struct {
	MomentumConfig

	mom []float64
}

type MomentumConfig struct {
	Window int `json:"window"`
}

func (c MomentumConfig) JSON() ([]byte, error) {
	return json.Marshal(c)
}

func NewMomentum(cfg MomentumConfig) *Momentum {
	return &Momentum{MomentumConfig: cfg}
}

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Warmup() int { return m.Window }

func (m *Momentum) Init(series *market.Series) error {
	if err := checkWindow(m.Name(), m.Window, series.Len()); err != nil {
		return err
	}

	var err error
	if m.mom, err = indicators.RollingMean(series.Returns(), m.Window); err != nil {
		return fmt.Errorf("%s: %w", m.Name(), err)
	}
	return nil
}

func (m *Momentum) Evaluate(i int, pos sim.Position, policy sim.Policy) Signal {
	mom := m.mom[i]

	if !policy.AllowShort {
		switch {
		case pos == sim.Flat && mom > 0:
			return Signal{Action: EnterLong, Size: sim.AllCash()}
		case pos == sim.Long && mom < 0:
			return Signal{Action: Exit}
		}
		return hold
	}

	switch {
	case pos != sim.Long && mom > 0:
		return Signal{Action: EnterLong, Size: sim.AllCash()}
	case pos != sim.Short && mom <= 0:
		return Signal{Action: EnterShort, Size: sim.AllCash()}
	}
	return hold
}
