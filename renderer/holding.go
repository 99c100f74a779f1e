package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/carteira"
)

// HoldingMarkdown renders the positions of a holding report.
func HoldingMarkdown(r *carteira.HoldingReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holding Report on %s\n\n", r.Date)
	fmt.Fprintf(&b, "Total Portfolio Value: **%s**\n\n", r.TotalValue)

	fmt.Fprintln(&b, "| Symbol | Class | Quantity | Avg. Cost | Price | Market Value | Unrealized | Realized | Weight | Target |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|---:|")
	for _, p := range r.Positions {
		if p.Quantity.IsZero() && p.Realized.IsZero() && p.Target == 0 {
			continue
		}
		target := "-"
		if p.Target != 0 {
			target = p.Target.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			p.Symbol, p.Class, p.Quantity, p.AverageCost, p.Price, p.MarketValue,
			p.Unrealized.SignedString(), p.Realized.SignedString(), p.Weight, target)
	}
	return b.String()
}

// AllocationMarkdown renders an allocation breakdown titled by.
func AllocationMarkdown(by string, allocs []carteira.Allocation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Allocation by %s\n\n", by)
	fmt.Fprintf(&b, "| %s | Value | Weight |\n", strings.ToUpper(by[:1])+by[1:])
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, a := range allocs {
		key := a.Key
		if key == "" {
			key = "*unknown*"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", key, a.Value, a.Weight)
	}
	return b.String()
}

// RebalanceMarkdown renders the moves that bring positions to their targets.
func RebalanceMarkdown(moves []carteira.Move, total carteira.Money) string {
	var b strings.Builder
	fmt.Fprint(&b, "## Rebalance\n\n")
	fmt.Fprintln(&b, "| Symbol | Move |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, m := range moves {
		if m.Amount.IsZero() {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s |\n", m.Symbol, m.Amount.SignedString())
	}
	fmt.Fprintf(&b, "\nAmount to move: **%s**\n", total)
	return b.String()
}
