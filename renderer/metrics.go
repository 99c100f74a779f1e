package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/carteira"
)

// MetricsMarkdown renders the performance and risk statistics.
func MetricsMarkdown(m carteira.Metrics) string {
	var b strings.Builder
	if m.Range.IsZero() {
		fmt.Fprint(&b, "# Performance\n\nNo trades.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "# Performance from %s to %s\n\n", m.Range.From, m.Range.To)

	fmt.Fprintln(&b, "| Flows | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Contributions | %s |\n", m.Contributions)
	fmt.Fprintf(&b, "| Withdrawals | %s |\n", m.Withdrawals)
	fmt.Fprintf(&b, "| Distributions | %s |\n", m.Distributions)
	fmt.Fprintf(&b, "| **Final Value** | **%s** |\n\n", m.FinalValue)

	irr := carteira.Ratio(m.IRR).SignedString()
	if !m.IRRConverged && m.IRR != 0 {
		irr += fmt.Sprintf(" (not converged after %d iterations)", m.IRRIterations)
	}

	fmt.Fprintln(&b, "| Statistic | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Time-Weighted Return | %s |\n", carteira.Ratio(m.TWR).SignedString())
	fmt.Fprintf(&b, "| Internal Rate of Return (annual) | %s |\n", irr)
	fmt.Fprintf(&b, "| Volatility (annual) | %s |\n", carteira.Ratio(m.Volatility))
	fmt.Fprintf(&b, "| Max Drawdown | %s |\n", carteira.Ratio(m.MaxDrawdown).SignedString())
	fmt.Fprintf(&b, "| Sharpe Ratio | %.2f |\n", m.Sharpe)
	if m.HasBenchmark {
		fmt.Fprintf(&b, "| Benchmark Return | %s |\n", carteira.Ratio(m.Benchmark).SignedString())
	}
	return b.String()
}
