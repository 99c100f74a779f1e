package carteira

import (
	"context"
	"fmt"
	"slices"

	"github.com/etnz/carteira/date"
)

// TradeSource reads the trade ledger.
type TradeSource interface {
	ReadTrades(ctx context.Context) ([]Trade, error)
}

// PriceSource reads the price ledger.
type PriceSource interface {
	ReadPrices(ctx context.Context) ([]PriceObservation, error)
}

// DistributionSource reads the cash distributions paid by the instruments.
type DistributionSource interface {
	ReadDistributions(ctx context.Context) ([]Distribution, error)
}

// AssetSource reads the asset registry.
type AssetSource interface {
	ReadAssets(ctx context.Context) ([]Asset, error)
}

// Source is a complete portfolio data source, like a ledger file or a database.
type Source interface {
	TradeSource
	PriceSource
	DistributionSource
	AssetSource
}

// Ledger is an in-memory portfolio data set.
//
// In a Ledger, trades, prices and distributions are always in chronological
// order. Records on the same day keep their insertion order.
type Ledger struct {
	Currency      string // portfolio currency, "" when unknown
	Trades        []Trade
	Prices        []PriceObservation
	Distributions []Distribution
	Assets        []Asset
}

// NewLedger creates an empty ledger in a currency.
func NewLedger(currency string) *Ledger { return &Ledger{Currency: currency} }

// Load materializes a Source into a Ledger. A record in another currency
// than the source is a RecordError.
func Load(ctx context.Context, src Source) (*Ledger, error) {
	trades, err := src.ReadTrades(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading trades: %w", err)
	}
	prices, err := src.ReadPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading prices: %w", err)
	}
	dists, err := src.ReadDistributions(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading distributions: %w", err)
	}
	assets, err := src.ReadAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading assets: %w", err)
	}
	l := &Ledger{}
	if c, ok := src.(interface{ Currency() string }); ok {
		l.Currency = c.Currency()
	}
	l.AppendTrades(trades...)
	l.AppendPrices(prices...)
	l.AppendDistributions(dists...)
	l.AppendAssets(assets...)
	if err := CheckCurrency(l.Currency, l.Trades, l.Prices, l.Distributions); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) ReadTrades(context.Context) ([]Trade, error) { return slices.Clone(l.Trades), nil }
func (l *Ledger) ReadPrices(context.Context) ([]PriceObservation, error) {
	return slices.Clone(l.Prices), nil
}
func (l *Ledger) ReadDistributions(context.Context) ([]Distribution, error) {
	return slices.Clone(l.Distributions), nil
}
func (l *Ledger) ReadAssets(context.Context) ([]Asset, error) { return slices.Clone(l.Assets), nil }

// AppendTrades appends trades, keeping the ledger sorted.
func (l *Ledger) AppendTrades(trades ...Trade) {
	l.Trades = sortTrades(append(l.Trades, trades...))
}

// AppendPrices appends price observations, keeping the ledger sorted.
func (l *Ledger) AppendPrices(prices ...PriceObservation) {
	l.Prices = sortPrices(append(l.Prices, prices...))
}

// AppendDistributions appends distributions, keeping the ledger sorted.
func (l *Ledger) AppendDistributions(dists ...Distribution) {
	l.Distributions = append(l.Distributions, dists...)
	slices.SortStableFunc(l.Distributions, func(a, b Distribution) int { return a.Date.Compare(b.Date) })
}

// AppendAssets declares assets. Declaring an asset twice replaces the previous declaration.
func (l *Ledger) AppendAssets(assets ...Asset) {
	for _, a := range assets {
		if i := slices.IndexFunc(l.Assets, func(b Asset) bool { return b.Symbol == a.Symbol }); i >= 0 {
			l.Assets[i] = a
			continue
		}
		l.Assets = append(l.Assets, a)
	}
}

// Asset returns the asset declared with this symbol, or nil if unknown.
func (l *Ledger) Asset(symbol string) *Asset {
	i := slices.IndexFunc(l.Assets, func(a Asset) bool { return a.Symbol == symbol })
	if i < 0 {
		return nil
	}
	return &l.Assets[i]
}

// AssetClasses returns the asset-class lookup of the declared assets.
func (l *Ledger) AssetClasses() AssetClasses {
	classes := make(AssetClasses, len(l.Assets))
	for _, a := range l.Assets {
		classes[a.Symbol] = a.Class
	}
	return classes
}

// Symbols returns the sorted list of traded symbols.
func (l *Ledger) Symbols() []string {
	var symbols []string
	for _, t := range l.Trades {
		if !slices.Contains(symbols, t.Symbol) {
			symbols = append(symbols, t.Symbol)
		}
	}
	slices.Sort(symbols)
	return symbols
}

// Range returns the days covered by the trades and the prices.
func (l *Ledger) Range() date.Range {
	var first, last date.Date
	if len(l.Trades) > 0 {
		first, last = l.Trades[0].Date, l.Trades[len(l.Trades)-1].Date
	}
	if len(l.Prices) > 0 {
		first = date.Min(first, l.Prices[0].Date)
		last = date.Max(last, l.Prices[len(l.Prices)-1].Date)
	}
	return date.Between(first, last)
}

// Reconstruct rebuilds the daily positions of the ledger up to asOf (the last record when zero).
func (l *Ledger) Reconstruct(asOf date.Date) *Reconstruction {
	return NewReconstruction(l.Trades, l.Prices, l.Distributions, asOf)
}

// check that a Ledger is a Source.
var _ Source = (*Ledger)(nil)
