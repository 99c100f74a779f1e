package carteira

import "testing"

func TestFIFORealizedGains(t *testing.T) {
	trades := []Trade{
		sell("2024-02-10", "HGLG11", 5, 170, 0), // out of order on purpose
		buy("2024-01-05", "PETR4", 100, 30, 0),
		buy("2024-01-08", "HGLG11", 10, 160, 0),
		sell("2024-01-20", "PETR4", 40, 35, 0),
	}
	classes := AssetClasses{"HGLG11": Fund}
	got := FIFORealizedGains(trades, classes)

	want := []struct {
		month    string
		symbol   string
		class    AssetClass
		realized float64
	}{
		{"2024-01", "PETR4", Equity, 200},
		{"2024-02", "HGLG11", Fund, 50},
	}
	if len(got) != len(want) {
		t.Fatalf("FIFORealizedGains() = %v, want %d results", got, len(want))
	}
	for i, w := range want {
		r := got[i]
		if r.Month.String() != w.month || r.Symbol != w.symbol || r.Class != w.class {
			t.Errorf("result[%d] = %v %v %v, want %v %v %v", i, r.Month, r.Symbol, r.Class, w.month, w.symbol, w.class)
		}
		if !r.Realized.Equal(NO(w.realized)) {
			t.Errorf("result[%d].Realized = %v, want %v", i, r.Realized, w.realized)
		}
	}
}

func TestFIFORealizedGainsNoLookup(t *testing.T) {
	got := FIFORealizedGains([]Trade{buy("2024-01-05", "X", 1, 1, 0), sell("2024-01-06", "X", 1, 2, 0)}, nil)
	if len(got) != 1 || got[0].Class != Equity {
		t.Errorf("FIFORealizedGains(nil lookup) = %v, want one Equity result", got)
	}
	if got := FIFORealizedGains(nil, nil); len(got) != 0 {
		t.Errorf("FIFORealizedGains(nil) = %v, want empty", got)
	}
}
