package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
	"github.com/etnz/carteira/renderer"
	"github.com/google/subcommands"
)

type dailyCmd struct {
	date   string
	period string
	all    bool
}

func (*dailyCmd) Name() string     { return "daily" }
func (*dailyCmd) Synopsis() string { return "day by day portfolio value and flows" }
func (*dailyCmd) Usage() string {
	return `crt daily [-d <date>] [-period <period>] [-all]

  Reconstructs the portfolio value of every calendar day from the first trade
  or price to the given date (the last record by default): held quantities
  are valued at the last known price, and each day carries its contributions,
  withdrawals and distributions.

  -period rolls the days up to weeks, months, quarters or years: each row is
  the value on the last day of the period and the flows of the whole period.

  With a database, the series is also saved as the daily cache used by
  'crt metrics -cached'.
`
}

func (c *dailyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Last day of the series. Defaults to the last record.")
	f.StringVar(&c.period, "period", "", "Roll up to periods (week, month, quarter, year)")
	f.BoolVar(&c.all, "all", false, "Show every day, including days without changes")
}

func (c *dailyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := parseAsOf(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	var period date.Period
	if c.period != "" {
		if period, err = date.ParsePeriod(c.period); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	e, err := setup(ctx, true)
	if err != nil {
		return fail("opening portfolio", err)
	}
	defer e.Close()

	snaps, err := c.snapshots(ctx, e, asOf)
	if err != nil {
		return fail("saving daily values", err)
	}
	if period != date.Daily {
		snaps = carteira.Resample(snaps, period)
	}
	printMarkdown(renderer.DailyMarkdown(snaps, c.all || period != date.Daily))
	return subcommands.ExitSuccess
}

// snapshots reconstructs the series and writes it through the database cache.
func (c *dailyCmd) snapshots(ctx context.Context, e *env, asOf date.Date) ([]carteira.DailySnapshot, error) {
	l := e.ledger
	snaps := carteira.ReconstructDailyPositions(l.Trades, l.Prices, l.Distributions, asOf)
	if e.store != nil {
		if err := e.store.SaveDailySnapshots(ctx, snaps); err != nil {
			return nil, err
		}
		e.log.Debug().Int("days", len(snaps)).Msg("daily cache saved")
	}
	return snaps, nil
}
