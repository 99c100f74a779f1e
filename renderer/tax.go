package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/carteira"
)

// TaxMarkdown renders the monthly tax summaries and the total due per month.
func TaxMarkdown(summaries []carteira.TaxSummary) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Capital Gains Tax\n\n")
	if len(summaries) == 0 {
		fmt.Fprint(&b, "No sales.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Month | Class | Sales | Realized | Tax |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|")
	for _, s := range summaries {
		tax := s.Tax.String()
		if s.Exempt {
			tax = "exempt"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", s.Month, s.Class, s.Proceeds, s.Realized.SignedString(), tax)
	}

	fmt.Fprint(&b, "\n## Due per Month\n\n")
	fmt.Fprintln(&b, "| Month | Tax |")
	fmt.Fprintln(&b, "|:---|---:|")
	monthly := carteira.MonthlyTax(summaries)
	for _, m := range carteira.Months(monthly) {
		fmt.Fprintf(&b, "| %s | %s |\n", m, monthly[m])
	}
	return b.String()
}
