package carteira

import (
	"cmp"
	"slices"

	"github.com/etnz/carteira/date"
)

// HoldingReport is the state of every position of a portfolio on a day,
// valued at the last known prices with the average-cost method.
type HoldingReport struct {
	Date       date.Date
	Currency   string
	Positions  []Position // sorted by market value, largest first
	TotalValue Money
}

// Position is the holding of a single instrument.
type Position struct {
	Asset                // registry data, only Symbol is set for undeclared instruments
	Quantity    Quantity // may be negative after uncovered sells
	AverageCost Money    // total cost / quantity
	TotalCost   Money    // fees included
	Price       Money    // last price, or last trade price when never observed
	MarketValue Money
	Unrealized  Money // (price - average cost) × quantity
	Realized    Money // average-cost realized gains, uncovered sells count at zero cost
	Weight      Percent
	TargetDiff  Percent // Weight - Target
	Rebalance   Money   // amount to buy (positive) or sell (negative) to reach Target
}

// NewHoldingReport computes the holdings of a ledger at the end of asOf
// (the last record when zero). Records in another currency than the ledger
// are skipped.
func NewHoldingReport(l *Ledger, asOf date.Date) *HoldingReport {
	if asOf.IsZero() {
		asOf = l.Range().To
	}
	report := &HoldingReport{Date: asOf, Currency: l.Currency, TotalValue: M(0, l.Currency)}

	byAsset := make(map[string]*Position)
	position := func(symbol string) *Position {
		p, ok := byAsset[symbol]
		if !ok {
			p = &Position{Asset: Asset{Symbol: symbol, Class: Equity}}
			if a := l.Asset(symbol); a != nil {
				p.Asset = *a
			}
			byAsset[symbol] = p
		}
		return p
	}
	for _, a := range l.Assets {
		position(a.Symbol)
	}

	currency := cmp.Or(l.Currency, currencyOf(l.Trades, l.Prices, nil))
	for _, t := range keep(l.Trades, currency) {
		if t.Date.After(asOf) {
			break
		}
		p := position(t.Symbol)
		p.Price = t.Price
		switch t.Side {
		case Buy:
			p.TotalCost = p.TotalCost.Add(t.Contribution())
			p.Quantity = p.Quantity.Add(t.Quantity)
		case Sell:
			proceeds := t.Proceeds()
			if !p.Quantity.IsPositive() {
				p.Realized = p.Realized.Add(proceeds)
				p.Quantity = p.Quantity.Sub(t.Quantity)
				continue
			}
			covered := t.Quantity.Min(p.Quantity)
			cost := p.TotalCost.Mul(covered).Div(p.Quantity)
			p.Realized = p.Realized.Add(proceeds.Sub(cost))
			p.TotalCost = p.TotalCost.Sub(cost)
			p.Quantity = p.Quantity.Sub(t.Quantity)
		}
	}

	for _, o := range keep(l.Prices, currency) {
		if o.Date.After(asOf) {
			break
		}
		if p, ok := byAsset[o.Symbol]; ok {
			p.Price = o.Price
		}
	}

	for _, p := range byAsset {
		if p.Quantity.IsPositive() {
			p.AverageCost = p.TotalCost.Div(p.Quantity)
		}
		p.MarketValue = p.Price.Mul(p.Quantity)
		p.Unrealized = p.Price.Sub(p.AverageCost).Mul(p.Quantity)
		report.TotalValue = report.TotalValue.Add(p.MarketValue)
	}

	total := report.TotalValue.Float()
	for _, p := range byAsset {
		if total > 0 {
			p.Weight = Ratio(p.MarketValue.Float() / total)
		}
		p.TargetDiff = p.Weight - p.Target
		// positive means buy.
		p.Rebalance = report.TotalValue.Scale(-float64(p.TargetDiff) / 100).Round()
		report.Positions = append(report.Positions, *p)
	}
	slices.SortFunc(report.Positions, func(a, b Position) int {
		return cmp.Or(b.MarketValue.Decimal().Cmp(a.MarketValue.Decimal()), cmp.Compare(a.Symbol, b.Symbol))
	})
	return report
}

// Allocation is the market value of a group of positions.
type Allocation struct {
	Key    string
	Value  Money
	Weight Percent
}

// AllocationKey selects the grouping key of a position.
type AllocationKey func(Position) string

// Allocation keys.
var (
	ByClass  AllocationKey = func(p Position) string { return string(p.Class) }
	BySector AllocationKey = func(p Position) string { return p.Sector }
	ByBroker AllocationKey = func(p Position) string { return p.Broker }
)

// AllocationBy sums the market value of the positions by key, largest first.
func AllocationBy(r *HoldingReport, key AllocationKey) []Allocation {
	var allocs []Allocation
	for _, p := range r.Positions {
		k := key(p)
		i := slices.IndexFunc(allocs, func(a Allocation) bool { return a.Key == k })
		if i < 0 {
			allocs = append(allocs, Allocation{Key: k, Value: M(0, r.Currency)})
			i = len(allocs) - 1
		}
		allocs[i].Value = allocs[i].Value.Add(p.MarketValue)
	}
	total := r.TotalValue.Float()
	for i := range allocs {
		if total > 0 {
			allocs[i].Weight = Ratio(allocs[i].Value.Float() / total)
		}
	}
	slices.SortStableFunc(allocs, func(a, b Allocation) int { return b.Value.Decimal().Cmp(a.Value.Decimal()) })
	return allocs
}

// Move is an amount to buy (positive) or sell (negative) of an instrument.
type Move struct {
	Symbol string
	Amount Money
}

// RebalanceSuggestion returns the moves that bring every position to its
// target weight, sells first, and the amount to move (half the sum of the
// absolute moves).
func RebalanceSuggestion(r *HoldingReport) ([]Move, Money) {
	moves := make([]Move, 0, len(r.Positions))
	total := M(0, r.Currency)
	for _, p := range r.Positions {
		moves = append(moves, Move{Symbol: p.Symbol, Amount: p.Rebalance})
		total = total.Add(p.Rebalance.Abs())
	}
	slices.SortStableFunc(moves, func(a, b Move) int { return a.Amount.Decimal().Cmp(b.Amount.Decimal()) })
	return moves, total.Scale(0.5)
}
