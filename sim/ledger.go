// Package sim implements the accounting core of the backtester: the cash and
// units ledger, the order execution model with fixed and proportional
// transaction costs, and the flat/long/short position state machine.
package sim

// Ledger tracks the cash balance and units held for one backtest run. Units
// are signed: negative units are a short position. Cash and Units change only
// through the engine's fill application, which also bumps Trades by exactly
// one per fill.
//
// The ledger never rejects a fill for insufficient cash. Negative cash is a
// legal intermediate state (while short, or after costs) because the model
// deliberately has no margin enforcement.
type Ledger struct {
	Cash           float64
	Units          int
	Trades         int
	InitialCapital float64
}

func NewLedger(initialCapital float64) *Ledger {
	return &Ledger{
		Cash:           initialCapital,
		InitialCapital: initialCapital,
	}
}

// NetWealth is the marked-to-market value of the portfolio at the given
// price: cash plus the position valued at price. No side effects.
func (l *Ledger) NetWealth(price float64) float64 {
	return l.Cash + float64(l.Units)*price
}

// applyFill mutates cash and units together for a single fill of delta units
// at price. A positive delta is a buy: proportional cost inflates the amount
// paid. A negative delta is a sell: proportional cost reduces the proceeds.
// The fixed cost is charged either way.
//
// The same primitive serves opening a long, covering a short, closing a long
// and the terminal close-out (the close-out passes zero cost terms).
func (l *Ledger) applyFill(delta int, price, proportional, fixed float64) {
	if delta >= 0 {
		l.Cash -= float64(delta)*price*(1+proportional) + fixed
	} else {
		l.Cash += float64(-delta)*price*(1-proportional) - fixed
	}
	l.Units += delta
	l.Trades++
}
