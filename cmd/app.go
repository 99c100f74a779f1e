// Package cmd implements the crt command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/carteira"
	"github.com/etnz/carteira/config"
	"github.com/etnz/carteira/date"
	"github.com/etnz/carteira/renderer"
	"github.com/etnz/carteira/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Commands are the subcommands of crt, registered by the main package.
var Commands = []subcommands.Command{
	&importCmd{},
	&importQuotesCmd{},
	&exportCmd{},
	&dailyCmd{},
	&metricsCmd{},
	&gainsCmd{},
	&taxCmd{},
	&holdingCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "carteira.toml", "Path to the TOML configuration file")
	dbPath     = flag.String("db", "", "Path to the SQLite database, overrides database.path")
	ledgerFile = flag.String("ledger", "", "Read a JSONL ledger instead of the database, overrides portfolio.ledger")
	verbose    = flag.Bool("v", false, "Verbose logging")
	format     = flag.String("format", "term", "Report format (term, md, html)")
)

// env is what a subcommand works with.
type env struct {
	cfg    *config.Config
	log    zerolog.Logger
	store  *store.Store // nil when a ledger file is used
	ledger *carteira.Ledger
}

// loadConfig reads the configuration file and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, fmt.Errorf("loading config %q: %w", *configFile, err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *ledgerFile != "" {
		cfg.Portfolio.Ledger = *ledgerFile
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().Logger()
}

// setup loads the configuration and opens the portfolio: the ledger file if
// one is configured, the database otherwise. withLedger loads the records in
// memory.
func setup(ctx context.Context, withLedger bool) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: newLogger(cfg.LogLevel)}

	if cfg.Portfolio.Ledger != "" {
		if !withLedger {
			return e, nil
		}
		f, err := os.Open(cfg.Portfolio.Ledger)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		e.ledger, err = carteira.DecodeLedger(f, cfg.Portfolio.Currency)
		if err != nil {
			return nil, fmt.Errorf("decoding %q: %w", cfg.Portfolio.Ledger, err)
		}
		e.log.Debug().Str("ledger", cfg.Portfolio.Ledger).Int("trades", len(e.ledger.Trades)).Msg("ledger decoded")
		return e, nil
	}

	e.store, err = store.Open(ctx, cfg.Database.Path, cfg.Portfolio.Currency, e.log)
	if err != nil {
		return nil, err
	}
	if withLedger {
		if e.ledger, err = carteira.Load(ctx, e.store); err != nil {
			e.store.Close()
			return nil, err
		}
		e.log.Debug().Str("db", e.store.Path()).Int("trades", len(e.ledger.Trades)).Msg("ledger loaded")
	}
	return e, nil
}

func (e *env) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.Error().Err(err).Msg("closing database")
		}
	}
}

// requireStore fails for commands that write to the database.
func (e *env) requireStore() error {
	if e.store == nil {
		return errors.New("this command needs a database, not a ledger file")
	}
	return nil
}

// warnUncovered logs the sales that exceeded the held quantity.
func (e *env) warnUncovered(results []carteira.RealizedResult) {
	for _, r := range results {
		if r.Uncovered.IsZero() {
			continue
		}
		e.log.Warn().
			Str("symbol", r.Symbol).
			Stringer("date", r.Date).
			Stringer("uncovered", r.Uncovered).
			Msg("sale exceeds the held quantity, the excess is matched at zero cost")
	}
}

// parseAsOf parses an optional date flag.
func parseAsOf(s string) (date.Date, error) {
	if s == "" {
		return date.Date{}, nil
	}
	return date.Parse(s)
}

// until returns the trades executed on or before asOf (all of them when zero).
func until(trades []carteira.Trade, asOf date.Date) []carteira.Trade {
	if asOf.IsZero() {
		return trades
	}
	for i, t := range trades {
		if t.Date.After(asOf) {
			return trades[:i]
		}
	}
	return trades
}

// printMarkdown prints a markdown report in the requested format.
func printMarkdown(md string) {
	switch *format {
	case "md":
		fmt.Print(md)
	case "html":
		html, err := renderer.HTML(md)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering html: %v\n", err)
			fmt.Print(md)
			return
		}
		fmt.Print(html)
	default:
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(160))
		if err != nil {
			fmt.Print(md)
			return
		}
		out, err := r.Render(md)
		if err != nil {
			fmt.Print(md)
			return
		}
		fmt.Print(out)
	}
}

// fail reports err and returns the failure status.
func fail(what string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	return subcommands.ExitFailure
}
