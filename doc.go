// Package carteira rebuilds the day by day value of an investment portfolio
// from its trade and price ledgers and derives performance and tax figures
// from it.
//
// The engine is made of four stateless parts:
//   - Position reconstruction: NewReconstruction replays trades and
//     forward-filled prices over a continuous calendar into DailySnapshot values.
//   - Returns and risk: ComputePerformanceMetrics derives the time-weighted
//     return, the money-weighted return (XIRR), volatility, maximum drawdown
//     and the Sharpe ratio of a snapshot series.
//   - FIFO lot matching: FIFORealizedGains matches every sell against the
//     oldest lots to compute realized gains and cost basis.
//   - Tax classification: ApplyTaxRules groups realized results by month and
//     asset class and applies the capital-gains rules.
//
// Amounts are exact decimals (Money, Quantity); statistics are float64.
// Ledgers are read through the Source interfaces, implemented by the JSONL
// Ledger of this package and by the SQLite store of package store.
package carteira
