// Package config defines the configuration of the crt command line and its
// conversion into engine settings.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/carteira"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by CARTEIRA_* environment variables.
type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Portfolio PortfolioConfig `toml:"portfolio"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Tax       TaxConfig       `toml:"tax"`
	LogLevel  string          `toml:"log_level"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// PortfolioConfig holds the portfolio wide settings.
type PortfolioConfig struct {
	Currency string `toml:"currency"`
	// Ledger is an optional JSONL ledger used instead of the database.
	Ledger string `toml:"ledger"`
}

// MetricsConfig tunes the performance statistics.
type MetricsConfig struct {
	TradingDays   int     `toml:"trading_days"`
	RiskFreeDaily float64 `toml:"risk_free_daily"`
	// Benchmark is the name of a benchmark series stored in the database.
	Benchmark string `toml:"benchmark"`
}

// TaxConfig holds the capital-gains rule of each asset class.
type TaxConfig struct {
	Equity  RuleConfig `toml:"equity"`
	Fund    RuleConfig `toml:"fund"`
	Default RuleConfig `toml:"default"`
}

// RuleConfig is the capital-gains rule of an asset class.
type RuleConfig struct {
	Rate         float64 `toml:"rate"`
	Exemption    float64 `toml:"exemption"`
	HasExemption bool    `toml:"has_exemption"`
}

// Defaults returns the configuration used when no file is given: a BRL
// portfolio in ./carteira.db with the simplified Brazilian tax rules.
func Defaults() Config {
	equity := RuleConfig{Rate: 0.15, Exemption: 20000, HasExemption: true}
	return Config{
		Database:  DatabaseConfig{Path: "carteira.db"},
		Portfolio: PortfolioConfig{Currency: "BRL"},
		Metrics:   MetricsConfig{TradingDays: carteira.DefaultTradingDays},
		Tax: TaxConfig{
			Equity:  equity,
			Fund:    RuleConfig{Rate: 0.20},
			Default: equity,
		},
		LogLevel: "info",
	}
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid values and returns a combined
// error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}
	if c.Database.Path == "" && c.Portfolio.Ledger == "" {
		errs = append(errs, "database: path must not be empty when no portfolio.ledger is set")
	}
	if len(c.Portfolio.Currency) != 3 {
		errs = append(errs, fmt.Sprintf("portfolio: currency must be an ISO 4217 code, got %q", c.Portfolio.Currency))
	}
	if c.Metrics.TradingDays <= 0 || c.Metrics.TradingDays > 366 {
		errs = append(errs, fmt.Sprintf("metrics: trading_days must be in (0, 366], got %d", c.Metrics.TradingDays))
	}
	if c.Metrics.RiskFreeDaily <= -1 {
		errs = append(errs, "metrics: risk_free_daily must be greater than -1")
	}
	for name, r := range map[string]RuleConfig{"equity": c.Tax.Equity, "fund": c.Tax.Fund, "default": c.Tax.Default} {
		if r.Rate < 0 || r.Rate > 1 {
			errs = append(errs, fmt.Sprintf("tax.%s: rate must be in [0, 1], got %g", name, r.Rate))
		}
		if r.Exemption < 0 {
			errs = append(errs, fmt.Sprintf("tax.%s: exemption must not be negative", name))
		}
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}

func (r RuleConfig) rule(currency string) carteira.ClassRule {
	return carteira.ClassRule{
		Rate:         r.Rate,
		Exemption:    carteira.M(r.Exemption, currency),
		HasExemption: r.HasExemption,
	}
}

// TaxRules returns the engine tax rules.
func (c *Config) TaxRules() carteira.TaxRules {
	cur := c.Portfolio.Currency
	return carteira.TaxRules{
		Default: c.Tax.Default.rule(cur),
		Classes: map[carteira.AssetClass]carteira.ClassRule{
			carteira.Equity: c.Tax.Equity.rule(cur),
			carteira.Fund:   c.Tax.Fund.rule(cur),
		},
	}
}

// MetricsConfig returns the engine metrics settings, without benchmark: the
// series is read from the database by the caller.
func (c *Config) MetricsConfig() carteira.MetricsConfig {
	return carteira.MetricsConfig{
		TradingDays:   c.Metrics.TradingDays,
		RiskFreeDaily: c.Metrics.RiskFreeDaily,
	}
}
