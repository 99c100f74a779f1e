package carteira

import "strings"

// AssetClass is the tax class of an instrument.
//
// Equity and Fund have their own tax rules. Any other class (ETF, BDR...) is
// free-form and taxed with the default rule.
type AssetClass string

const (
	Equity AssetClass = "equity"
	Fund   AssetClass = "fund" // real-estate investment fund (FII)
)

// ParseAssetClass normalizes a class name. The registry codes used by
// Brazilian brokers are recognized: "Ação" is an Equity, "FII" a Fund.
// Empty names are Equity.
func ParseAssetClass(s string) AssetClass {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "equity", "stock", "acao", "ação", "acoes", "ações":
		return Equity
	case "fund", "fii", "fiis":
		return Fund
	default:
		return AssetClass(strings.TrimSpace(s))
	}
}

func (c AssetClass) String() string { return string(c) }

// AssetClassLookup returns the class of a symbol. ok is false for unknown symbols.
type AssetClassLookup interface {
	AssetClass(symbol string) (class AssetClass, ok bool)
}

// AssetClasses is an AssetClassLookup from a plain map.
type AssetClasses map[string]AssetClass

func (m AssetClasses) AssetClass(symbol string) (AssetClass, bool) {
	c, ok := m[symbol]
	return c, ok
}

// classOf returns the class of symbol, Equity if unknown.
func classOf(classes AssetClassLookup, symbol string) AssetClass {
	if classes == nil {
		return Equity
	}
	if c, ok := classes.AssetClass(symbol); ok && c != "" {
		return c
	}
	return Equity
}
