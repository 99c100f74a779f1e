package store

// schema is applied on Open. Every statement is idempotent.
//
// Amounts and quantities are TEXT decimals to stay exact, dates are ISO-8601.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS trades (
		id         TEXT PRIMARY KEY,
		date       TEXT NOT NULL,
		symbol     TEXT NOT NULL,
		side       TEXT NOT NULL CHECK(side IN ('buy', 'sell')),
		quantity   TEXT NOT NULL,
		price      TEXT NOT NULL,
		fees       TEXT NOT NULL DEFAULT '0',
		note       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date)`,
	`CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol)`,

	`CREATE TABLE IF NOT EXISTS prices (
		date   TEXT NOT NULL,
		symbol TEXT NOT NULL,
		price  TEXT NOT NULL,
		PRIMARY KEY (date, symbol)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_prices_symbol ON prices(symbol, date)`,

	`CREATE TABLE IF NOT EXISTS distributions (
		id     TEXT PRIMARY KEY,
		date   TEXT NOT NULL,
		symbol TEXT NOT NULL,
		kind   TEXT NOT NULL DEFAULT '',
		amount TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_distributions_date ON distributions(date)`,

	`CREATE TABLE IF NOT EXISTS assets (
		symbol TEXT PRIMARY KEY,
		name   TEXT NOT NULL DEFAULT '',
		class  TEXT NOT NULL DEFAULT 'equity',
		sector TEXT NOT NULL DEFAULT '',
		broker TEXT NOT NULL DEFAULT '',
		target REAL NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS benchmarks (
		name  TEXT NOT NULL,
		date  TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (name, date)
	)`,

	`CREATE TABLE IF NOT EXISTS portfolio_daily (
		date          TEXT PRIMARY KEY,
		value         TEXT NOT NULL,
		contributions TEXT NOT NULL,
		withdrawals   TEXT NOT NULL,
		distributions TEXT NOT NULL,
		computed_at   TEXT NOT NULL
	)`,
}
