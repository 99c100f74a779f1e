package carteira

import (
	"github.com/etnz/carteira/date"
)

// lot represents a single purchase of an instrument, used for cost basis calculations.
type lot struct {
	Date     date.Date
	Quantity Quantity // remaining quantity
	Cost     Money    // total cost of the remaining quantity, fees included
}

type lots []lot

// unitCost returns the cost of one unit of the lot.
func (l lot) unitCost() Money { return l.Cost.Div(l.Quantity) }

// quantity returns the total remaining quantity.
func (l lots) quantity() Quantity {
	var q Quantity
	for _, x := range l {
		q = q.Add(x.Quantity)
	}
	return q
}

// cost returns the total cost of the remaining quantity.
func (l lots) cost() Money {
	var c Money
	for _, x := range l {
		c = c.Add(x.Cost)
	}
	return c
}

// sell consumes quantityToSell from the oldest lots first. It returns the
// remaining lots, the cost of the matched quantity and the quantity that
// could not be matched.
func (l lots) sell(quantityToSell Quantity) (remaining lots, matched Money, unmatched Quantity) {
	for i, currentLot := range l {
		if quantityToSell.negligible() {
			return append(remaining, l[i:]...), matched, Quantity{}
		}
		if currentLot.Quantity.GreaterThan(quantityToSell) {
			// Partial sale from this lot
			costOfSoldPortion := currentLot.Cost.Mul(quantityToSell).Div(currentLot.Quantity)
			matched = matched.Add(costOfSoldPortion)
			rest := lot{
				Date:     currentLot.Date,
				Quantity: currentLot.Quantity.Sub(quantityToSell),
				Cost:     currentLot.Cost.Sub(costOfSoldPortion),
			}
			quantityToSell = Quantity{}
			if !rest.Quantity.negligible() {
				remaining = append(remaining, rest)
			}
			continue
		}
		// Full sale of this lot
		matched = matched.Add(currentLot.Cost)
		quantityToSell = quantityToSell.Sub(currentLot.Quantity)
	}
	if quantityToSell.negligible() {
		quantityToSell = Quantity{}
	}
	return remaining, matched, quantityToSell
}

// OpenLot is a read-only view of a lot still held.
type OpenLot struct {
	Date     date.Date
	Quantity Quantity
	UnitCost Money
}

// Book keeps the FIFO lots of every instrument of a portfolio.
type Book struct {
	lots map[string]lots
}

// NewBook returns an empty Book.
func NewBook() *Book { return &Book{lots: make(map[string]lots)} }

// Buy opens a lot of t.Quantity units at (quantity × price + fees) / quantity.
func (b *Book) Buy(t Trade) {
	b.lots[t.Symbol] = append(b.lots[t.Symbol], lot{
		Date:     t.Date,
		Quantity: t.Quantity,
		Cost:     t.Contribution(),
	})
}

// Sell matches t against the oldest lots of its symbol and returns the
// realized result. Units sold beyond the held lots are matched at zero cost
// and reported as Uncovered.
func (b *Book) Sell(t Trade) RealizedResult {
	remaining, matched, unmatched := b.lots[t.Symbol].sell(t.Quantity)
	b.lots[t.Symbol] = remaining
	proceeds := t.Proceeds()
	matched = matched.In(proceeds.Currency())
	return RealizedResult{
		Date:      t.Date,
		Month:     MonthOf(t.Date),
		Symbol:    t.Symbol,
		Class:     Equity,
		Quantity:  t.Quantity,
		Proceeds:  proceeds,
		Cost:      matched,
		Realized:  proceeds.Sub(matched),
		Uncovered: unmatched,
	}
}

// Remaining returns the quantity of symbol still held in lots.
func (b *Book) Remaining(symbol string) Quantity { return b.lots[symbol].quantity() }

// CostBasis returns the total cost of the lots of symbol.
func (b *Book) CostBasis(symbol string) Money { return b.lots[symbol].cost() }

// AverageCost returns the cost basis per remaining unit, 0 when nothing is held.
func (b *Book) AverageCost(symbol string) Money {
	q := b.Remaining(symbol)
	if q.IsZero() {
		return Money{}
	}
	return b.CostBasis(symbol).Div(q)
}

// Lots returns the open lots of symbol, oldest first.
func (b *Book) Lots(symbol string) []OpenLot {
	var open []OpenLot
	for _, l := range b.lots[symbol] {
		open = append(open, OpenLot{Date: l.Date, Quantity: l.Quantity, UnitCost: l.unitCost()})
	}
	return open
}
