package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/renderer"
	"github.com/google/subcommands"
)

type taxCmd struct {
	month string
}

func (*taxCmd) Name() string     { return "tax" }
func (*taxCmd) Synopsis() string { return "monthly capital-gains tax per asset class" }
func (*taxCmd) Usage() string {
	return `crt tax [-m <yyyy-mm>]

  Groups the FIFO realized gains by month and asset class and applies the
  configured tax rules ([tax.equity], [tax.fund] and [tax.default]). By
  default equities are taxed 15% unless the month sales are at most 20000,
  and real-estate funds are taxed 20%. Losses are not carried forward.
`
}

func (c *taxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Only report this month")
}

func (c *taxCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var month carteira.Month
	if c.month != "" {
		var err error
		if month, err = carteira.ParseMonth(c.month); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing month: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	e, err := setup(ctx, true)
	if err != nil {
		return fail("opening portfolio", err)
	}
	defer e.Close()

	printMarkdown(renderer.TaxMarkdown(taxSummaries(e, month)))
	return subcommands.ExitSuccess
}

// taxSummaries returns the tax summaries of the ledger, of a single month when set.
func taxSummaries(e *env, month carteira.Month) []carteira.TaxSummary {
	results := carteira.FIFORealizedGains(e.ledger.Trades, e.ledger.AssetClasses())
	e.warnUncovered(results)
	summaries := carteira.ApplyTaxRules(results, e.cfg.TaxRules())
	if month == (carteira.Month{}) {
		return summaries
	}
	var filtered []carteira.TaxSummary
	for _, s := range summaries {
		if s.Month == month {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
