package carteira

import (
	"slices"

	"github.com/etnz/carteira/date"
)

// DailySnapshot is the state of the portfolio at the end of a day.
//
// Value is Σ held quantity × forward-filled price. Contributions, Withdrawals
// and Distributions are the cash that crossed the portfolio boundary that day.
type DailySnapshot struct {
	Date          date.Date
	Value         Money
	Contributions Money // Σ Buy quantity × price + fees
	Withdrawals   Money // Σ Sell quantity × price - fees
	Distributions Money // Σ distribution amounts
}

// NetFlow returns the day's net external flow: contributions - withdrawals + distributions.
func (s DailySnapshot) NetFlow() Money {
	return s.Contributions.Sub(s.Withdrawals).Add(s.Distributions)
}

// InvestorFlow returns the day's cash flow from the investor point of view:
// -contributions + withdrawals + distributions.
func (s DailySnapshot) InvestorFlow() Money {
	return s.Withdrawals.Add(s.Distributions).Sub(s.Contributions)
}

// flows accumulates the external flows of a day.
type flows struct {
	contributions, withdrawals, distributions Money
}

// Reconstruction is the day by day state of a portfolio, rebuilt from its
// trade and price ledgers.
type Reconstruction struct {
	days       date.Range
	symbols    []string
	quantities map[string]*date.History[Quantity] // cumulative held quantity on trade days
	prices     map[string]*date.History[Money]
	snapshots  []DailySnapshot
}

// ReconstructDailyPositions rebuilds the daily snapshots of a portfolio. See NewReconstruction.
func ReconstructDailyPositions(trades []Trade, prices []PriceObservation, distributions []Distribution, asOf date.Date) []DailySnapshot {
	return NewReconstruction(trades, prices, distributions, asOf).Snapshots()
}

// NewReconstruction rebuilds the state of the portfolio for every calendar day
// from the first trade or price to asOf. A zero asOf means the last trade or
// price date. Records after the last day are ignored.
//
// Held quantity is the running sum of signed trade quantities and it may be
// transiently negative. Prices are forward-filled; a day before the first
// observation of an instrument prices it 0.
//
// The portfolio currency is the first one found in trades, then prices, then
// distributions. Records in another currency are skipped, use CheckCurrency to
// report them.
func NewReconstruction(trades []Trade, prices []PriceObservation, distributions []Distribution, asOf date.Date) *Reconstruction {
	r := &Reconstruction{
		quantities: make(map[string]*date.History[Quantity]),
		prices:     make(map[string]*date.History[Money]),
	}
	trades = sortTrades(trades)
	prices = sortPrices(prices)
	currency := currencyOf(trades, prices, distributions)
	trades, prices, distributions = keep(trades, currency), keep(prices, currency), keep(distributions, currency)
	if len(trades) == 0 && len(prices) == 0 {
		return r
	}

	var first, last date.Date
	if len(trades) > 0 {
		first, last = trades[0].Date, trades[len(trades)-1].Date
	}
	if len(prices) > 0 {
		first = date.Min(first, prices[0].Date)
		last = date.Max(last, prices[len(prices)-1].Date)
	}
	if !asOf.IsZero() {
		last = asOf
	}
	if last.Before(first) {
		return r
	}
	r.days = date.Between(first, last)
	zero := M(0, currency)

	daily := make(map[date.Date]*flows)
	flowsOn := func(day date.Date) *flows {
		f, ok := daily[day]
		if !ok {
			f = &flows{zero, zero, zero}
			daily[day] = f
		}
		return f
	}

	held := make(map[string]Quantity)
	for _, t := range trades {
		if t.Date.After(last) {
			break
		}
		h, ok := r.quantities[t.Symbol]
		if !ok {
			h = new(date.History[Quantity])
			r.quantities[t.Symbol] = h
			r.symbols = append(r.symbols, t.Symbol)
		}
		held[t.Symbol] = held[t.Symbol].Add(t.Quantity.Mul(t.Side.sign()))
		h.Append(t.Date, held[t.Symbol])

		f := flowsOn(t.Date)
		switch t.Side {
		case Buy:
			f.contributions = f.contributions.Add(t.Contribution())
		case Sell:
			f.withdrawals = f.withdrawals.Add(t.Proceeds())
		}
	}

	for _, p := range prices {
		if p.Date.After(last) {
			break
		}
		h, ok := r.prices[p.Symbol]
		if !ok {
			h = new(date.History[Money])
			r.prices[p.Symbol] = h
		}
		h.Append(p.Date, p.Price) // last one wins
	}

	for _, d := range distributions {
		if !r.days.Contains(d.Date) {
			continue
		}
		f := flowsOn(d.Date)
		f.distributions = f.distributions.Add(d.Amount)
	}

	slices.Sort(r.symbols)
	r.snapshots = make([]DailySnapshot, 0, r.days.Len())
	for day := range r.days.Days() {
		s := DailySnapshot{Date: day, Value: zero, Contributions: zero, Withdrawals: zero, Distributions: zero}
		for _, symbol := range r.symbols {
			s.Value = s.Value.Add(r.MarketValue(symbol, day))
		}
		if f, ok := daily[day]; ok {
			s.Contributions, s.Withdrawals, s.Distributions = f.contributions, f.withdrawals, f.distributions
		}
		r.snapshots = append(r.snapshots, s)
	}
	return r
}

// Snapshots returns the daily snapshots in chronological order.
func (r *Reconstruction) Snapshots() []DailySnapshot { return slices.Clone(r.snapshots) }

// Range returns the reconstructed calendar.
func (r *Reconstruction) Range() date.Range { return r.days }

// Symbols returns the sorted symbols that have been traded.
func (r *Reconstruction) Symbols() []string { return slices.Clone(r.symbols) }

// Quantity returns the quantity of symbol held at the end of day.
func (r *Reconstruction) Quantity(symbol string, day date.Date) Quantity {
	h, ok := r.quantities[symbol]
	if !ok {
		return Quantity{}
	}
	q, _ := h.ValueAsOf(day)
	return q
}

// Price returns the last known price of symbol on day, and false if there is
// no observation yet.
func (r *Reconstruction) Price(symbol string, day date.Date) (Money, bool) {
	h, ok := r.prices[symbol]
	if !ok {
		return Money{}, false
	}
	return h.ValueAsOf(day)
}

// MarketValue returns quantity × price of symbol on day.
func (r *Reconstruction) MarketValue(symbol string, day date.Date) Money {
	p, _ := r.Price(symbol, day)
	return p.Mul(r.Quantity(symbol, day))
}

// Resample rolls a daily series up to periods: each period is represented by
// its last day value and the sum of its flows. Periods are clipped to the
// series range, so the first and last ones may be partial.
func Resample(snapshots []DailySnapshot, p date.Period) []DailySnapshot {
	if len(snapshots) == 0 {
		return nil
	}
	r := date.Between(snapshots[0].Date, snapshots[len(snapshots)-1].Date)
	var out []DailySnapshot
	i := 0
	for period := range r.Periods(p) {
		var agg DailySnapshot
		for ; i < len(snapshots) && !snapshots[i].Date.After(period.To); i++ {
			s := snapshots[i]
			agg.Date, agg.Value = s.Date, s.Value
			agg.Contributions = agg.Contributions.Add(s.Contributions)
			agg.Withdrawals = agg.Withdrawals.Add(s.Withdrawals)
			agg.Distributions = agg.Distributions.Add(s.Distributions)
		}
		if !agg.Date.IsZero() {
			out = append(out, agg)
		}
	}
	return out
}
