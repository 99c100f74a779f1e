package carteira

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Side tells whether a trade buys or sells.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParseSide parses a trade side. It accepts "buy" and "sell" and the
// brokerage note codes "C" (compra) and "V" (venda), case-insensitive.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "c", "compra":
		return Buy, nil
	case "sell", "v", "venda":
		return Sell, nil
	default:
		return Buy, fmt.Errorf("unknown side %q", s)
	}
}

// sign returns +1 for Buy, -1 for Sell.
func (s Side) sign() Quantity {
	if s == Sell {
		return Q(-1)
	}
	return Q(1)
}

func (s Side) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Side) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	v, err := ParseSide(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
