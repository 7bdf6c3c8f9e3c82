package strategies

import (
	"encoding/json"
	"fmt"

	"github.com/rustyeddy/backtest/indicators"
	"github.com/rustyeddy/backtest/market"
	"github.com/rustyeddy/backtest/sim"
)

// SMACross trades the crossover of a short-window and a long-window simple
// moving average of the price.
//
// Long-only: enter long while flat when the fast SMA is above the slow SMA,
// exit when it is below. Long-short: the exit becomes a flip to short, and a
// fast SMA back above the slow flips long again. Entries use all available
// cash. Comparisons are strict; equal SMAs hold.
type SMACross struct {
	SMACrossConfig

	fast []float64
	slow []float64
}

type SMACrossConfig struct {
	Fast int `json:"fast-window"`
	Slow int `json:"slow-window"`
}

func (c SMACrossConfig) JSON() ([]byte, error) {
	return json.Marshal(c)
}

func NewSMACross(cfg SMACrossConfig) *SMACross {
	return &SMACross{SMACrossConfig: cfg}
}

func (s *SMACross) Name() string { return "sma-cross" }

// Warmup is the slow window: trading starts one bar after the slow SMA is
// first defined.
func (s *SMACross) Warmup() int { return s.Slow }

func (s *SMACross) Init(series *market.Series) error {
	if err := checkWindow(s.Name(), s.Fast, series.Len()); err != nil {
		return err
	}
	if err := checkWindow(s.Name(), s.Slow, series.Len()); err != nil {
		return err
	}
	if s.Fast >= s.Slow {
		return fmt.Errorf("%s: fast window %d must be smaller than slow window %d", s.Name(), s.Fast, s.Slow)
	}

	prices := series.Prices()
	var err error
	if s.fast, err = indicators.RollingMean(prices, s.Fast); err != nil {
		return fmt.Errorf("%s: %w", s.Name(), err)
	}
	if s.slow, err = indicators.RollingMean(prices, s.Slow); err != nil {
		return fmt.Errorf("%s: %w", s.Name(), err)
	}
	return nil
}

func (s *SMACross) Evaluate(i int, pos sim.Position, policy sim.Policy) Signal {
	fast, slow := s.fast[i], s.slow[i]

	if !policy.AllowShort {
		switch {
		case pos == sim.Flat && fast > slow:
			return Signal{Action: EnterLong, Size: sim.AllCash()}
		case pos == sim.Long && fast < slow:
			return Signal{Action: Exit}
		}
		return hold
	}

	switch {
	case pos != sim.Long && fast > slow:
		return Signal{Action: EnterLong, Size: sim.AllCash()}
	case pos != sim.Short && fast < slow:
		return Signal{Action: EnterShort, Size: sim.AllCash()}
	}
	return hold
}
