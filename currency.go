package carteira

import (
	"cmp"
	"slices"
)

// A portfolio has a single currency. Amounts without currency are in the
// portfolio currency, there is no conversion. The pure computations skip the
// records in another currency; CheckCurrency reports them as errors.

// compatible reports whether m can be combined with amounts in cur.
func compatible(m Money, cur string) bool { return m.cur == "" || cur == "" || m.cur == cur }

// currency returns the currency of the trade amounts, "" when none is set.
func (t Trade) currency() string { return cmp.Or(t.Price.cur, t.Fees.cur) }

func (t Trade) in(cur string) bool {
	return compatible(t.Price, cur) && compatible(t.Fees, cur) && compatible(t.Price, t.Fees.cur)
}
func (p PriceObservation) in(cur string) bool { return compatible(p.Price, cur) }
func (d Distribution) in(cur string) bool     { return compatible(d.Amount, cur) }

// currencyOf returns the first currency found in trades, then prices, then distributions.
func currencyOf(trades []Trade, prices []PriceObservation, distributions []Distribution) string {
	for _, t := range trades {
		if c := t.currency(); c != "" {
			return c
		}
	}
	for _, p := range prices {
		if p.Price.cur != "" {
			return p.Price.cur
		}
	}
	for _, d := range distributions {
		if d.Amount.cur != "" {
			return d.Amount.cur
		}
	}
	return ""
}

// keep returns the records of s that are in currency cur. s is returned as is
// when nothing is dropped.
func keep[T interface{ in(string) bool }](s []T, cur string) []T {
	i := slices.IndexFunc(s, func(x T) bool { return !x.in(cur) })
	if i < 0 {
		return s
	}
	kept := slices.Clone(s[:i])
	for _, x := range s[i+1:] {
		if x.in(cur) {
			kept = append(kept, x)
		}
	}
	return kept
}

// CheckCurrency returns a RecordError for the first record that is not in
// currency. An empty currency is the currency of the first record that has one.
func CheckCurrency(currency string, trades []Trade, prices []PriceObservation, distributions []Distribution) error {
	if currency == "" {
		currency = currencyOf(trades, prices, distributions)
	}
	for _, t := range trades {
		if !t.in(currency) {
			return invalid("currency", "%s %s on %s: price %v and fees %v in a %s portfolio", t.Side, t.Symbol, t.Date, t.Price.cur, t.Fees.cur, currency)
		}
	}
	for _, p := range prices {
		if !p.in(currency) {
			return invalid("currency", "price of %s on %s: %s in a %s portfolio", p.Symbol, p.Date, p.Price.cur, currency)
		}
	}
	for _, d := range distributions {
		if !d.in(currency) {
			return invalid("currency", "distribution of %s on %s: %s in a %s portfolio", d.Symbol, d.Date, d.Amount.cur, currency)
		}
	}
	return nil
}
