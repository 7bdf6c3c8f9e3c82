package sim

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/backtest/journal"
	"github.com/rustyeddy/backtest/market"
	"github.com/rustyeddy/backtest/pkg/id"
)

// Side of a fill: +1 buy, -1 sell.
type Side int8

const (
	Buy  Side = +1
	Sell Side = -1
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// Costs are the per-fill transaction cost terms. Proportional is applied to
// the traded notional (inflating a buy, reducing sale proceeds), Fixed is a
// flat charge per fill.
type Costs struct {
	Fixed        float64
	Proportional float64
}

func (c Costs) Validate() error {
	if c.Fixed < 0 {
		return fmt.Errorf("fixed cost must be non-negative, got %v", c.Fixed)
	}
	if c.Proportional < 0 || c.Proportional >= 1 {
		return fmt.Errorf("proportional cost must be in [0,1), got %v", c.Proportional)
	}
	return nil
}

// Fill is one executed trade. Cash and NetWealth are the ledger values right
// after the fill was applied.
type Fill struct {
	ID        string
	Date      time.Time
	Price     float64
	Units     int
	Side      Side
	Cash      float64
	NetWealth float64
}

// Engine turns trade intents into ledger mutations. Each fill is atomic from
// the caller's perspective: cash, units and the trade count update together.
//
// An Engine belongs to exactly one run. Concurrent runs must each own their
// own Engine; only the market series may be shared.
type Engine struct {
	ledger *Ledger
	costs  Costs
	fills  []Fill

	journal journal.Journal
	runID   string

	verbose bool
	out     io.Writer
}

func NewEngine(initialCapital float64, costs Costs) *Engine {
	return &Engine{
		ledger:  NewLedger(initialCapital),
		costs:   costs,
		journal: journal.Nop{},
	}
}

// SetNarration enables per-fill narration on w.
func (e *Engine) SetNarration(w io.Writer) {
	e.verbose = true
	e.out = w
}

// SetJournal attaches a journal; every subsequent fill is recorded under runID.
func (e *Engine) SetJournal(j journal.Journal, runID string) {
	if j == nil {
		j = journal.Nop{}
	}
	e.journal = j
	e.runID = runID
}

func (e *Engine) Ledger() *Ledger { return e.ledger }

// Fills returns every fill applied so far, in execution order.
func (e *Engine) Fills() []Fill { return e.fills }

// Buy executes a buy fill on the given bar. A budget that resolves to zero
// units still fills (the fixed cost applies and the trade count increments).
func (e *Engine) Buy(bar market.Bar, size OrderSize) (Fill, error) {
	units := size.resolve(bar.Price, e.ledger)
	e.ledger.applyFill(units, bar.Price, e.costs.Proportional, e.costs.Fixed)

	if e.verbose {
		fmt.Fprintf(e.out, "%s | buying %d units at %.2f\n", day(bar.Date), units, bar.Price)
		e.narrateBalance(bar)
	}
	return e.record(bar, units, Buy)
}

// Sell executes a sell fill on the given bar. Proportional cost reduces the
// proceeds rather than increasing the cost.
func (e *Engine) Sell(bar market.Bar, size OrderSize) (Fill, error) {
	units := size.resolve(bar.Price, e.ledger)
	e.ledger.applyFill(-units, bar.Price, e.costs.Proportional, e.costs.Fixed)

	if e.verbose {
		fmt.Fprintf(e.out, "%s | selling %d units at %.2f\n", day(bar.Date), units, bar.Price)
		e.narrateBalance(bar)
	}
	return e.record(bar, -units, Sell)
}

// CloseOut liquidates any open position at the bar's price with no cost
// terms, as a single fill. When the ledger is already flat it does nothing:
// no fill, no trade count.
func (e *Engine) CloseOut(bar market.Bar) (Fill, bool, error) {
	held := e.ledger.Units
	if held == 0 {
		return Fill{}, false, nil
	}

	side := Sell
	if held < 0 {
		side = Buy
	}
	e.ledger.applyFill(-held, bar.Price, 0, 0)

	if e.verbose {
		fmt.Fprintf(e.out, "%s | inventory %d units at %.2f\n", day(bar.Date), e.ledger.Units, bar.Price)
	}
	fill, err := e.record(bar, -held, side)
	return fill, true, err
}

func (e *Engine) record(bar market.Bar, delta int, side Side) (Fill, error) {
	units := delta
	if units < 0 {
		units = -units
	}
	fill := Fill{
		ID:        id.New(),
		Date:      bar.Date,
		Price:     bar.Price,
		Units:     units,
		Side:      side,
		Cash:      e.ledger.Cash,
		NetWealth: e.ledger.NetWealth(bar.Price),
	}
	e.fills = append(e.fills, fill)

	err := e.journal.RecordFill(journal.FillRecord{
		FillID:    fill.ID,
		RunID:     e.runID,
		Date:      fill.Date,
		Side:      side.String(),
		Units:     units,
		Price:     fill.Price,
		Cash:      fill.Cash,
		NetWealth: fill.NetWealth,
	})
	if err != nil {
		return fill, fmt.Errorf("record fill: %w", err)
	}
	return fill, nil
}

func (e *Engine) narrateBalance(bar market.Bar) {
	fmt.Fprintf(e.out, "%s | current balance %.2f\n", day(bar.Date), e.ledger.Cash)
	fmt.Fprintf(e.out, "%s | current net wealth %.2f\n", day(bar.Date), e.ledger.NetWealth(bar.Price))
}

func day(t time.Time) string {
	return t.Format("2006-01-02")
}
