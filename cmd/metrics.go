package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
	"github.com/etnz/carteira/renderer"
	"github.com/etnz/carteira/store"
	"github.com/google/subcommands"
)

type metricsCmd struct {
	date      string
	benchmark string
	cached    bool
}

func (*metricsCmd) Name() string     { return "metrics" }
func (*metricsCmd) Synopsis() string { return "performance and risk statistics" }
func (*metricsCmd) Usage() string {
	return `crt metrics [-d <date>] [-benchmark <name>] [-cached]

  Computes the time-weighted return, the internal rate of return (XIRR), the
  annualized volatility, the maximum drawdown and the Sharpe ratio of the
  daily portfolio values up to the given date.

  -benchmark compares with a benchmark series imported with
  'crt import-quotes -benchmark'. -cached reads the daily values saved by the
  last 'crt daily' instead of reconstructing them.
`
}

func (c *metricsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Last day of the statistics. Defaults to the last record.")
	f.StringVar(&c.benchmark, "benchmark", "", "Benchmark series, overrides metrics.benchmark")
	f.BoolVar(&c.cached, "cached", false, "Use the saved daily values")
}

func (c *metricsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := parseAsOf(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	e, err := setup(ctx, !c.cached)
	if err != nil {
		return fail("opening portfolio", err)
	}
	defer e.Close()

	m, err := c.metrics(ctx, e, asOf)
	if err != nil {
		return fail("computing metrics", err)
	}
	printMarkdown(renderer.MetricsMarkdown(m))
	return subcommands.ExitSuccess
}

func (c *metricsCmd) metrics(ctx context.Context, e *env, asOf date.Date) (carteira.Metrics, error) {
	var snaps []carteira.DailySnapshot
	if c.cached {
		if err := e.requireStore(); err != nil {
			return carteira.Metrics{}, err
		}
		all, err := e.store.ReadDailySnapshots(ctx)
		if err != nil {
			return carteira.Metrics{}, err
		}
		for _, s := range all {
			if !asOf.IsZero() && s.Date.After(asOf) {
				break
			}
			snaps = append(snaps, s)
		}
	} else {
		snaps = e.ledger.Reconstruct(asOf).Snapshots()
	}

	cfg := e.cfg.MetricsConfig()
	name := c.benchmark
	if name == "" {
		name = e.cfg.Metrics.Benchmark
	}
	if name != "" && e.store != nil {
		obs, err := e.store.ReadBenchmark(ctx, name)
		switch {
		case errors.Is(err, store.ErrNotFound):
			e.log.Warn().Str("benchmark", name).Msg("no such benchmark, import it with 'crt import-quotes -benchmark'")
		case err != nil:
			return carteira.Metrics{}, err
		default:
			cfg.Benchmark = obs
		}
	}

	m := carteira.ComputePerformanceMetrics(snaps, cfg)
	if !m.IRRConverged && len(snaps) > 1 {
		e.log.Warn().Int("iterations", m.IRRIterations).Float64("rate", m.IRR).Msg("internal rate of return did not converge")
	}
	return m, nil
}
