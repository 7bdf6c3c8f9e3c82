package sim

import (
	"errors"

	"github.com/rustyeddy/backtest/market"
)

// Position is the directional exposure of the portfolio.
type Position int8

const (
	Flat  Position = 0
	Long  Position = +1
	Short Position = -1
)

func (p Position) String() string {
	switch p {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "flat"
	}
}

// Policy selects the state machine variant. Long-only restricts positions to
// {flat, long}; with AllowShort all three states are reachable.
type Policy struct {
	AllowShort bool
}

// ErrShortNotAllowed is returned when a short entry is requested under a
// long-only policy. Well-behaved strategy rules never emit such intents.
var ErrShortNotAllowed = errors.New("sim: short entry not allowed by policy")

// Controller owns the position state and enforces which transitions are
// legal. All mutations go through validated transitions; flips pay to close
// the opposite side first, as two distinct fills on the same bar, so the cost
// model and trade count see both.
type Controller struct {
	pos    Position
	policy Policy
}

func NewController(policy Policy) *Controller {
	return &Controller{policy: policy}
}

func (c *Controller) Position() Position { return c.pos }
func (c *Controller) Policy() Policy     { return c.policy }

// GoLong opens (or flips to) a long position. From short, the negative
// holding is covered first with its own fill; the entry size resolves
// afterwards, so AllCash sees the post-cover balance.
func (c *Controller) GoLong(e *Engine, bar market.Bar, size OrderSize) error {
	if c.pos == Short {
		if _, err := e.Buy(bar, Units(-e.Ledger().Units)); err != nil {
			return err
		}
	}
	if _, err := e.Buy(bar, size); err != nil {
		return err
	}
	c.pos = Long
	return nil
}

// GoShort opens (or flips to) a short position, modeled as negative units.
// From long, the holding is sold first with its own fill.
func (c *Controller) GoShort(e *Engine, bar market.Bar, size OrderSize) error {
	if !c.policy.AllowShort {
		return ErrShortNotAllowed
	}
	if c.pos == Long {
		if _, err := e.Sell(bar, Units(e.Ledger().Units)); err != nil {
			return err
		}
	}
	if _, err := e.Sell(bar, size); err != nil {
		return err
	}
	c.pos = Short
	return nil
}

// Exit returns to flat by trading away the full current holding: a long
// sells exactly Units, a short buys exactly -Units. Already flat is a no-op.
func (c *Controller) Exit(e *Engine, bar market.Bar) error {
	switch c.pos {
	case Long:
		if _, err := e.Sell(bar, Units(e.Ledger().Units)); err != nil {
			return err
		}
	case Short:
		if _, err := e.Buy(bar, Units(-e.Ledger().Units)); err != nil {
			return err
		}
	}
	c.pos = Flat
	return nil
}

// CloseOut is the terminal pseudo-transition: any non-flat state is forced to
// flat via the engine's cost-free close-out fill, regardless of strategy
// signals.
func (c *Controller) CloseOut(e *Engine, bar market.Bar) (Fill, bool, error) {
	fill, ok, err := e.CloseOut(bar)
	c.pos = Flat
	return fill, ok, err
}
