package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies CARTEIRA_* environment variable overrides, and
// returns the final Config. An empty path or a missing file yields the
// defaults. The returned Config has NOT been validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads the CARTEIRA_* environment variables and overwrites
// the corresponding Config fields when a variable is set.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Database.Path, "CARTEIRA_DATABASE_PATH")

	setStr(&cfg.Portfolio.Currency, "CARTEIRA_PORTFOLIO_CURRENCY")
	setStr(&cfg.Portfolio.Ledger, "CARTEIRA_PORTFOLIO_LEDGER")

	setInt(&cfg.Metrics.TradingDays, "CARTEIRA_METRICS_TRADING_DAYS")
	setFloat64(&cfg.Metrics.RiskFreeDaily, "CARTEIRA_METRICS_RISK_FREE_DAILY")
	setStr(&cfg.Metrics.Benchmark, "CARTEIRA_METRICS_BENCHMARK")

	setRule(&cfg.Tax.Equity, "CARTEIRA_TAX_EQUITY")
	setRule(&cfg.Tax.Fund, "CARTEIRA_TAX_FUND")
	setRule(&cfg.Tax.Default, "CARTEIRA_TAX_DEFAULT")

	setStr(&cfg.LogLevel, "CARTEIRA_LOG_LEVEL")
}

func setRule(dst *RuleConfig, prefix string) {
	setFloat64(&dst.Rate, prefix+"_RATE")
	setFloat64(&dst.Exemption, prefix+"_EXEMPTION")
	setBool(&dst.HasExemption, prefix+"_HAS_EXEMPTION")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
