package carteira

import (
	"math"

	"github.com/etnz/carteira/date"
)

// BRL is a helper for test to create real money from const
func BRL(v float64) Money { return M(v, "BRL") }

// NO is a helper for test to create money from const wit no currency set
func NO(v float64) Money { return M(v, "") }

// day parses a date for tests.
func day(s string) date.Date { return date.MustParse(s) }

func buy(on, symbol string, qty, price, fees float64) Trade {
	return Trade{Date: day(on), Symbol: symbol, Side: Buy, Quantity: Q(qty), Price: NO(price), Fees: NO(fees)}
}

func sell(on, symbol string, qty, price, fees float64) Trade {
	return Trade{Date: day(on), Symbol: symbol, Side: Sell, Quantity: Q(qty), Price: NO(price), Fees: NO(fees)}
}

func price(on, symbol string, p float64) PriceObservation {
	return PriceObservation{Date: day(on), Symbol: symbol, Price: NO(p)}
}

// near reports whether a and b are equal within tol.
func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }
