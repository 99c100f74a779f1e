package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
	"github.com/etnz/carteira/renderer"
	"github.com/google/subcommands"
)

type holdingCmd struct {
	date      string
	by        string
	rebalance bool
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "positions, allocation and rebalance" }
func (*holdingCmd) Usage() string {
	return `crt holding [-d <date>] [-by class,sector,broker] [-rebalance]

  Displays every position on the given date: quantity, average cost, last
  price, market value, unrealized and realized gains, and its weight in the
  portfolio compared to the asset target.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Report date. Defaults to the last record.")
	f.StringVar(&c.by, "by", "", "Comma separated allocation breakdowns (class, sector, broker)")
	f.BoolVar(&c.rebalance, "rebalance", false, "Suggest the moves to reach the target weights")
}

var allocationKeys = map[string]carteira.AllocationKey{
	"class":  carteira.ByClass,
	"sector": carteira.BySector,
	"broker": carteira.ByBroker,
}

func (c *holdingCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := parseAsOf(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	md, err := c.report(ctx, asOf)
	if err != nil {
		return fail("computing holdings", err)
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

func (c *holdingCmd) report(ctx context.Context, asOf date.Date) (string, error) {
	e, err := setup(ctx, true)
	if err != nil {
		return "", err
	}
	defer e.Close()
	return c.markdown(carteira.NewHoldingReport(e.ledger, asOf))
}

func (c *holdingCmd) markdown(report *carteira.HoldingReport) (string, error) {
	var b strings.Builder
	b.WriteString(renderer.HoldingMarkdown(report))
	if c.by != "" {
		for _, by := range strings.Split(c.by, ",") {
			by = strings.TrimSpace(by)
			key, ok := allocationKeys[by]
			if !ok {
				return "", fmt.Errorf("unknown allocation %q (valid: class, sector, broker)", by)
			}
			b.WriteString("\n")
			b.WriteString(renderer.AllocationMarkdown(by, carteira.AllocationBy(report, key)))
		}
	}
	if c.rebalance {
		moves, total := carteira.RebalanceSuggestion(report)
		b.WriteString("\n")
		b.WriteString(renderer.RebalanceMarkdown(moves, total))
	}
	return b.String(), nil
}
