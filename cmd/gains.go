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

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	date string
	lots bool
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized gain analysis with FIFO lots" }
func (*gainsCmd) Usage() string {
	return `crt gains [-d <date>] [-lots]

  Matches every sale against the oldest open lots of the same symbol and
  displays the realized gain of each sale. Fees are part of the lot cost and
  are deducted from the sale proceeds.

  A sale larger than the held quantity is matched at zero cost for the excess
  and reported as uncovered.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Ignore trades after this date")
	f.BoolVar(&c.lots, "lots", false, "Also show the open lots")
}

func (c *gainsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := parseAsOf(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	e, err := setup(ctx, true)
	if err != nil {
		return fail("opening portfolio", err)
	}
	defer e.Close()

	trades := until(e.ledger.Trades, asOf)
	results := carteira.FIFORealizedGains(trades, e.ledger.AssetClasses())
	e.warnUncovered(results)

	var book *carteira.Book
	if c.lots {
		book = carteira.FIFOBook(trades)
	}
	printMarkdown(renderer.GainsMarkdown(results, book, e.ledger.Symbols()))
	return subcommands.ExitSuccess
}
