package carteira

import (
	"cmp"
	"maps"
	"slices"
	"strings"
)

// ClassRule is the capital-gains rule of an asset class for a month.
//
// A month is exempt when HasExemption is set and its gross sale proceeds are
// at most Exemption. Otherwise the tax is max(net realized, 0) × Rate.
type ClassRule struct {
	Rate         float64 // 0.15 for 15%
	Exemption    Money
	HasExemption bool
}

// TaxRules gives the ClassRule of each asset class. Classes without a rule use Default.
type TaxRules struct {
	Default ClassRule
	Classes map[AssetClass]ClassRule
}

// DefaultTaxRules returns the simplified Brazilian rules: equities are taxed
// 15% with monthly sales up to 20 000 exempt, funds (FII) 20% without exemption.
func DefaultTaxRules() TaxRules {
	equity := ClassRule{Rate: 0.15, Exemption: M(20000, ""), HasExemption: true}
	return TaxRules{
		Default: equity,
		Classes: map[AssetClass]ClassRule{
			Equity: equity,
			Fund:   {Rate: 0.20},
		},
	}
}

// Rule returns the rule of class. Both class and the keys of Classes are
// normalized with ParseAssetClass and matched case-insensitively, so "FII"
// and "fund" share a rule.
func (r TaxRules) Rule(class AssetClass) ClassRule {
	if rule, ok := r.Classes[class]; ok {
		return rule
	}
	class = ParseAssetClass(string(class))
	for c, rule := range r.Classes {
		if strings.EqualFold(string(ParseAssetClass(string(c))), string(class)) {
			return rule
		}
	}
	return r.Default
}

// TaxSummary is the tax due on the realized results of an asset class for a month.
type TaxSummary struct {
	Month    Month
	Class    AssetClass
	Proceeds Money // gross sale proceeds
	Realized Money // net realized gain, may be negative
	Tax      Money
	Exempt   bool
}

// ApplyTaxRules groups results by month and class and computes the tax of each group.
// Summaries are sorted by month then class. Losses are not carried forward.
// Results in another currency than the first one that has a currency are skipped.
func ApplyTaxRules(results []RealizedResult, rules TaxRules) []TaxSummary {
	type key struct {
		month Month
		class AssetClass
	}
	var currency string
	for _, r := range results {
		if currency = cmp.Or(r.Proceeds.cur, r.Realized.cur); currency != "" {
			break
		}
	}
	groups := make(map[key]*TaxSummary)
	for _, r := range results {
		if !compatible(r.Proceeds, currency) || !compatible(r.Realized, currency) {
			continue
		}
		k := key{r.Month, ParseAssetClass(string(r.Class))}
		s, ok := groups[k]
		if !ok {
			s = &TaxSummary{Month: k.month, Class: k.class}
			groups[k] = s
		}
		s.Proceeds = s.Proceeds.Add(r.Proceeds)
		s.Realized = s.Realized.Add(r.Realized)
	}

	summaries := make([]TaxSummary, 0, len(groups))
	for _, s := range groups {
		rule := rules.Rule(s.Class)
		s.Tax = M(0, s.Proceeds.Currency())
		if rule.HasExemption && s.Proceeds.LessThanOrEqual(rule.Exemption) {
			s.Exempt = true
		} else {
			s.Tax = s.Realized.Max(s.Tax).Scale(rule.Rate).Round()
		}
		summaries = append(summaries, *s)
	}
	slices.SortFunc(summaries, func(a, b TaxSummary) int {
		return cmp.Or(a.Month.Compare(b.Month), cmp.Compare(a.Class, b.Class))
	})
	return summaries
}

// MonthlyTax returns the total tax due per month.
func MonthlyTax(summaries []TaxSummary) map[Month]Money {
	total := make(map[Month]Money)
	for _, s := range summaries {
		total[s.Month] = total[s.Month].Add(s.Tax)
	}
	return total
}

// Months returns the sorted months of a monthly map.
func Months[V any](m map[Month]V) []Month {
	return slices.SortedFunc(maps.Keys(m), Month.Compare)
}
