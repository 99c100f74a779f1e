package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/carteira"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "BRL", cfg.Portfolio.Currency)
	assert.Equal(t, carteira.DefaultTradingDays, cfg.Metrics.TradingDays)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carteira.toml")
	content := `
log_level = "debug"

[database]
path = "/var/lib/carteira.db"

[portfolio]
currency = "EUR"

[metrics]
trading_days = 250
benchmark = "IBOV"

[tax.fund]
rate = 0.1
exemption = 1000
has_exemption = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/lib/carteira.db", cfg.Database.Path)
	assert.Equal(t, "EUR", cfg.Portfolio.Currency)
	assert.Equal(t, 250, cfg.Metrics.TradingDays)
	assert.Equal(t, "IBOV", cfg.Metrics.Benchmark)
	assert.Equal(t, RuleConfig{Rate: 0.1, Exemption: 1000, HasExemption: true}, cfg.Tax.Fund)
	// untouched sections keep their defaults.
	assert.Equal(t, Defaults().Tax.Equity, cfg.Tax.Equity)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carteira.toml")
	require.NoError(t, os.WriteFile(path, []byte("[database\npath="), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CARTEIRA_DATABASE_PATH", "env.db")
	t.Setenv("CARTEIRA_METRICS_RISK_FREE_DAILY", "0.0004")
	t.Setenv("CARTEIRA_TAX_EQUITY_HAS_EXEMPTION", "false")
	t.Setenv("CARTEIRA_METRICS_TRADING_DAYS", "not a number")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env.db", cfg.Database.Path)
	assert.InDelta(t, 0.0004, cfg.Metrics.RiskFreeDaily, 1e-12)
	assert.False(t, cfg.Tax.Equity.HasExemption)
	assert.Equal(t, carteira.DefaultTradingDays, cfg.Metrics.TradingDays)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "loud"
	cfg.Portfolio.Currency = "REAL"
	cfg.Metrics.TradingDays = 0
	cfg.Tax.Fund.Rate = 2

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"log_level", "currency", "trading_days", "tax.fund"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestTaxRules(t *testing.T) {
	cfg := Defaults()
	rules := cfg.TaxRules()

	equity := rules.Rule(carteira.Equity)
	assert.Equal(t, 0.15, equity.Rate)
	assert.True(t, equity.HasExemption)
	assert.Equal(t, "20000.00", equity.Exemption.Decimal().StringFixed(2))

	assert.Equal(t, 0.20, rules.Rule(carteira.Fund).Rate)
	assert.False(t, rules.Rule(carteira.Fund).HasExemption)
	assert.Equal(t, equity, rules.Rule("crypto"))
}

func TestMetricsConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Metrics.RiskFreeDaily = 0.0003
	mc := cfg.MetricsConfig()
	assert.Equal(t, carteira.DefaultTradingDays, mc.TradingDays)
	assert.Equal(t, 0.0003, mc.RiskFreeDaily)
	assert.Empty(t, mc.Benchmark)
}
