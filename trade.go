package carteira

import (
	"cmp"
	"slices"

	"github.com/etnz/carteira/date"
)

// Trade is an immutable trade execution.
type Trade struct {
	Date     date.Date
	Symbol   string
	Side     Side
	Quantity Quantity // always positive
	Price    Money    // unit price
	Fees     Money    // brokerage fees and taxes paid on the trade
	Note     string
}

// Gross returns quantity × price.
func (t Trade) Gross() Money { return t.Price.Mul(t.Quantity) }

// Contribution returns the cash invested by a Buy: gross + fees. It is zero for a Sell.
func (t Trade) Contribution() Money {
	if t.Side != Buy {
		return Money{cur: t.Price.cur}
	}
	return t.Gross().Add(t.Fees)
}

// Proceeds returns the cash received by a Sell: gross - fees. It is zero for a Buy.
func (t Trade) Proceeds() Money {
	if t.Side != Sell {
		return Money{cur: t.Price.cur}
	}
	return t.Gross().Sub(t.Fees)
}

// Validate checks the trade invariants.
func (t Trade) Validate() error {
	switch {
	case t.Date.IsZero():
		return invalid("date", "missing date")
	case t.Symbol == "":
		return invalid("symbol", "missing symbol")
	case !t.Quantity.IsPositive():
		return invalid("quantity", "quantity must be positive got %v", t.Quantity)
	case t.Price.IsNegative():
		return invalid("price", "price must not be negative got %v", t.Price)
	case t.Fees.IsNegative():
		return invalid("fees", "fees must not be negative got %v", t.Fees)
	}
	return nil
}

// PriceObservation is the closing price of an instrument on a day.
type PriceObservation struct {
	Date   date.Date
	Symbol string
	Price  Money
}

// Validate checks the observation invariants.
func (p PriceObservation) Validate() error {
	switch {
	case p.Date.IsZero():
		return invalid("date", "missing date")
	case p.Symbol == "":
		return invalid("symbol", "missing symbol")
	case p.Price.IsNegative():
		return invalid("price", "price must not be negative got %v", p.Price)
	}
	return nil
}

// Distribution is cash paid by an instrument to the investor (dividend,
// interest on equity, fund income...). It counts as an investor inflow.
type Distribution struct {
	Date   date.Date
	Symbol string
	Kind   string
	Amount Money
}

// Validate checks the distribution invariants.
func (d Distribution) Validate() error {
	switch {
	case d.Date.IsZero():
		return invalid("date", "missing date")
	case d.Symbol == "":
		return invalid("symbol", "missing symbol")
	}
	return nil
}

// Asset describes an instrument of the portfolio.
type Asset struct {
	Symbol string
	Name   string
	Class  AssetClass
	Sector string
	Broker string
	Target Percent // target weight in the portfolio, 0 for none
}

// sortTrades sorts trades by date, keeping the insertion order for trades on the same day.
func sortTrades(trades []Trade) []Trade {
	sorted := slices.Clone(trades)
	slices.SortStableFunc(sorted, func(a, b Trade) int { return a.Date.Compare(b.Date) })
	return sorted
}

// sortPrices sorts observations by date, then symbol, keeping the insertion order otherwise.
func sortPrices(prices []PriceObservation) []PriceObservation {
	sorted := slices.Clone(prices)
	slices.SortStableFunc(sorted, func(a, b PriceObservation) int {
		return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.Symbol, b.Symbol))
	})
	return sorted
}
