package sim

type sizeKind uint8

const (
	byUnits sizeKind = iota
	byBudget
	allCash
	initialCash
)

// OrderSize says how a fill is sized: an exact unit count, a cash budget to
// convert to units at the fill price, or the sentinel "all available cash".
// Construct one with Units, Budget or AllCash.
type OrderSize struct {
	kind   sizeKind
	units  int
	budget float64
}

// Units sizes an order as an exact unit count.
func Units(n int) OrderSize { return OrderSize{kind: byUnits, units: n} }

// Budget sizes an order by converting a cash amount to units at the fill
// price. Fractional units are not supported; the conversion truncates toward
// zero, which biases slightly conservative.
func Budget(amount float64) OrderSize { return OrderSize{kind: byBudget, budget: amount} }

// AllCash sizes an order using the ledger's entire cash balance at fill time.
// When a flip closes the opposite side first, the balance is read after that
// covering fill.
func AllCash() OrderSize { return OrderSize{kind: allCash} }

// InitialCash sizes an order with a budget equal to the run's initial
// capital, regardless of the current balance.
func InitialCash() OrderSize { return OrderSize{kind: initialCash} }

// resolve converts the size to a concrete unit count against the fill price
// and the ledger state.
func (s OrderSize) resolve(price float64, l *Ledger) int {
	switch s.kind {
	case byUnits:
		return s.units
	case byBudget:
		return unitsFor(s.budget, price)
	case allCash:
		return unitsFor(l.Cash, price)
	case initialCash:
		return unitsFor(l.InitialCapital, price)
	}
	panic("sim: unknown order size kind")
}

// unitsFor converts a cash budget to whole units. A non-positive price is a
// data-quality condition, not a programming error: it fails closed to zero
// units instead of propagating a fault.
func unitsFor(budget, price float64) int {
	if price <= 0 {
		return 0
	}
	return int(budget / price)
}
