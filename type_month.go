package carteira

import (
	"fmt"
	"time"

	"github.com/etnz/carteira/date"
)

// Month is a calendar month, the period of the tax computation.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month of a day.
func MonthOf(d date.Date) Month { return Month{Year: d.Year(), Month: d.Month()} }

// ParseMonth parses "2006-01".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-1", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q want format YYYY-MM: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// Range returns the days of the month.
func (m Month) Range() date.Range {
	return date.NewRange(date.New(m.Year, m.Month, 1), date.Monthly)
}

// Before reports whether m is before n.
func (m Month) Before(n Month) bool {
	return m.Year < n.Year || (m.Year == n.Year && m.Month < n.Month)
}

// Compare returns -1, 0 or +1.
func (m Month) Compare(n Month) int {
	switch {
	case m.Before(n):
		return -1
	case n.Before(m):
		return 1
	default:
		return 0
	}
}

func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }

func (m Month) MarshalJSON() ([]byte, error) { return []byte(`"` + m.String() + `"`), nil }
