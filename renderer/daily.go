package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/carteira"
)

// DailyMarkdown renders the daily portfolio series. Days without flows and
// whose value did not change are folded away unless all is set.
func DailyMarkdown(snapshots []carteira.DailySnapshot, all bool) string {
	var b strings.Builder
	if len(snapshots) == 0 {
		fmt.Fprint(&b, "# Daily Values\n\nNo trades.\n")
		return b.String()
	}
	first, last := snapshots[0], snapshots[len(snapshots)-1]
	fmt.Fprintf(&b, "# Daily Values from %s to %s\n\n", first.Date, last.Date)

	fmt.Fprintln(&b, "| Date | Value | Contributions | Withdrawals | Distributions | Net Flow |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
	for i, s := range snapshots {
		if !all && i > 0 && i < len(snapshots)-1 &&
			s.NetFlow().IsZero() && s.Value.Equal(snapshots[i-1].Value) {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			s.Date,
			s.Value,
			s.Contributions.SignedString(),
			s.Withdrawals.SignedString(),
			s.Distributions.SignedString(),
			s.NetFlow().SignedString(),
		)
	}
	return b.String()
}
