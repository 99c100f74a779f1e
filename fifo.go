package carteira

import (
	"github.com/etnz/carteira/date"
)

// RealizedResult is the outcome of one Sell matched against FIFO lots.
type RealizedResult struct {
	Date      date.Date
	Month     Month
	Symbol    string
	Class     AssetClass
	Quantity  Quantity
	Proceeds  Money // quantity × price - fees
	Cost      Money // cost of the matched lots
	Realized  Money // Proceeds - Cost
	Uncovered Quantity
}

// FIFORealizedGains replays trades in chronological order through a FIFO
// Book and returns one RealizedResult per Sell, in order. The class of each
// result comes from classes, Equity when unknown or when classes is nil.
// Trades in another currency than the first trade are skipped.
func FIFORealizedGains(trades []Trade, classes AssetClassLookup) []RealizedResult {
	results, _ := replay(trades, classes)
	return results
}

// replay runs trades through a new Book and returns the realized results and the final Book.
func replay(trades []Trade, classes AssetClassLookup) ([]RealizedResult, *Book) {
	book := NewBook()
	var results []RealizedResult
	trades = sortTrades(trades)
	for _, t := range keep(trades, currencyOf(trades, nil, nil)) {
		switch t.Side {
		case Buy:
			book.Buy(t)
		case Sell:
			r := book.Sell(t)
			r.Class = classOf(classes, t.Symbol)
			results = append(results, r)
		}
	}
	return results, book
}

// FIFOBook returns the Book after replaying all trades.
func FIFOBook(trades []Trade) *Book {
	_, book := replay(trades, nil)
	return book
}
