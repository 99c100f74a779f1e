package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/carteira"
)

// GainsMarkdown renders the FIFO realized results, one row per sale, and the
// remaining open lots of book when it is not nil.
func GainsMarkdown(results []carteira.RealizedResult, book *carteira.Book, symbols []string) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Realized Gains (FIFO)\n\n")

	if len(results) == 0 {
		fmt.Fprint(&b, "No sales.\n\n")
	} else {
		fmt.Fprintln(&b, "| Date | Symbol | Class | Quantity | Proceeds | Cost | Realized |")
		fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|")
		var total carteira.Money
		for _, r := range results {
			qty := r.Quantity.String()
			if !r.Uncovered.IsZero() {
				qty += fmt.Sprintf(" (%s uncovered)", r.Uncovered)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				r.Date, r.Symbol, r.Class, qty, r.Proceeds, r.Cost, r.Realized.SignedString())
			total = total.Add(r.Realized)
		}
		fmt.Fprintf(&b, "| **Total** | | | | | | **%s** |\n\n", total.SignedString())
	}

	if book == nil {
		return b.String()
	}
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Open Lots\n\n")
		fmt.Fprintln(w, "| Symbol | Date | Quantity | Unit Cost |")
		fmt.Fprintln(w, "|:---|:---|---:|---:|")
		var found bool
		for _, s := range symbols {
			for _, l := range book.Lots(s) {
				fmt.Fprintf(w, "| %s | %s | %s | %s |\n", s, l.Date, l.Quantity, l.UnitCost)
				found = true
			}
		}
		return found
	})
	return b.String()
}
