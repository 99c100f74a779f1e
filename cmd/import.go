package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/carteira"
	"github.com/google/subcommands"
)

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "imports JSONL ledgers into the database" }
func (*importCmd) Usage() string {
	return `crt import <ledger.jsonl>...

  Validates every record of a ledger file, then appends them to the database.
  A file with an invalid record is not imported. Prices and assets already in
  the database are replaced.

  Each line is a JSON object with a "command":

    {"command":"buy","date":"2024-01-02","symbol":"PETR4","quantity":100,"price":38.5,"fees":4.9}
    {"command":"sell","date":"2024-02-02","symbol":"PETR4","quantity":50,"price":41}
    {"command":"price","date":"2024-02-02","symbol":"PETR4","price":41.2}
    {"command":"distribution","date":"2024-03-01","symbol":"PETR4","kind":"dividend","amount":120}
    {"command":"asset","symbol":"PETR4","class":"equity","sector":"energy","target":25}
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "import needs at least one ledger file")
		return subcommands.ExitUsageError
	}
	e, err := setup(ctx, false)
	if err != nil {
		return fail("opening portfolio", err)
	}
	defer e.Close()
	if err := e.requireStore(); err != nil {
		return fail("importing", err)
	}

	for _, name := range f.Args() {
		n, err := c.importFile(ctx, e, name)
		if err != nil {
			return fail(fmt.Sprintf("importing %q", name), err)
		}
		e.log.Info().Str("file", name).Int("records", n).Msg("imported")
	}
	return subcommands.ExitSuccess
}

func (*importCmd) importFile(ctx context.Context, e *env, name string) (int, error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	l, err := carteira.DecodeLedger(f, e.cfg.Portfolio.Currency)
	if err != nil {
		return 0, err
	}
	return e.store.Import(ctx, l)
}

type importQuotesCmd struct {
	benchmark string
}

func (*importQuotesCmd) Name() string     { return "import-quotes" }
func (*importQuotesCmd) Synopsis() string { return "imports quote dumps as prices or benchmark values" }
func (*importQuotesCmd) Usage() string {
	return `crt import-quotes [-benchmark <name>] <quotes.json>...

  Reads quote dumps in the brapi.dev format (the "results" of the quote
  endpoint, with or without the historical data) and stores their closes as
  price observations. With -benchmark, the closes of every quote are stored as
  the named benchmark series instead.
`
}

func (c *importQuotesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.benchmark, "benchmark", "", "Store the quotes as this benchmark series")
}

func (c *importQuotesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "import-quotes needs at least one quote file")
		return subcommands.ExitUsageError
	}
	e, err := setup(ctx, false)
	if err != nil {
		return fail("opening portfolio", err)
	}
	defer e.Close()
	if err := e.requireStore(); err != nil {
		return fail("importing quotes", err)
	}

	for _, name := range f.Args() {
		n, err := c.importFile(ctx, e, name)
		if err != nil {
			return fail(fmt.Sprintf("importing %q", name), err)
		}
		e.log.Info().Str("file", name).Int("quotes", n).Str("benchmark", c.benchmark).Msg("imported")
	}
	return subcommands.ExitSuccess
}

func (c *importQuotesCmd) importFile(ctx context.Context, e *env, name string) (int, error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	obs, err := carteira.DecodeQuotes(f, e.cfg.Portfolio.Currency)
	if err != nil {
		return 0, err
	}
	if c.benchmark != "" {
		return len(obs), e.store.AddBenchmark(ctx, c.benchmark, obs...)
	}
	return len(obs), e.store.AddPrices(ctx, obs...)
}

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "exports the database as a JSONL ledger" }
func (*exportCmd) Usage() string {
	return `crt export [-o <ledger.jsonl>]

  Writes every asset, trade, price and distribution of the portfolio in the
  JSONL ledger format, sorted by date. The output can be imported back.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, stdout by default")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := setup(ctx, true)
	if err != nil {
		return fail("opening portfolio", err)
	}
	defer e.Close()

	w := os.Stdout
	if c.output != "" {
		w, err = os.Create(c.output)
		if err != nil {
			return fail("creating output", err)
		}
		defer w.Close()
	}
	if err := carteira.EncodeLedger(w, e.ledger); err != nil {
		return fail("exporting", err)
	}
	return subcommands.ExitSuccess
}
