package carteira

import (
	"testing"

	"github.com/etnz/carteira/date"
)

func holdingLedger() *Ledger {
	l := NewLedger("")
	l.AppendAssets(
		Asset{Symbol: "PETR4", Class: Equity, Sector: "energy", Broker: "xp", Target: 50},
		Asset{Symbol: "HGLG11", Class: Fund, Sector: "logistics", Broker: "xp", Target: 50},
	)
	l.AppendTrades(
		buy("2024-01-02", "PETR4", 10, 30, 0),
		buy("2024-01-03", "PETR4", 10, 40, 0),
		sell("2024-01-04", "PETR4", 5, 45, 0),
		buy("2024-01-05", "HGLG11", 1, 150, 0),
		sell("2024-01-06", "BBDC4", 3, 10, 0), // uncovered
	)
	l.AppendPrices(price("2024-01-06", "PETR4", 50))
	return l
}

func TestNewHoldingReport(t *testing.T) {
	r := NewHoldingReport(holdingLedger(), date.Date{})
	if r.Date != day("2024-01-06") {
		t.Errorf("Date = %v, want 2024-01-06", r.Date)
	}
	if len(r.Positions) != 3 {
		t.Fatalf("len(Positions) = %v, want 3", len(r.Positions))
	}
	petr := r.Positions[0]
	if petr.Symbol != "PETR4" {
		t.Fatalf("Positions[0] = %v, want PETR4 (largest value first)", petr.Symbol)
	}
	// average cost 35, 5 sold at 45
	checks := []struct {
		name      string
		got, want Money
	}{
		{"AverageCost", petr.AverageCost, NO(35)},
		{"TotalCost", petr.TotalCost, NO(525)},
		{"MarketValue", petr.MarketValue, NO(750)},
		{"Unrealized", petr.Unrealized, NO(225)},
		{"Realized", petr.Realized, NO(50)},
	}
	for _, c := range checks {
		if !c.got.Equal(c.want) {
			t.Errorf("PETR4 %s = %v, want %v", c.name, c.got, c.want)
		}
	}

	hglg := r.Positions[1]
	if hglg.Symbol != "HGLG11" || !hglg.Price.Equal(NO(150)) {
		t.Errorf("Positions[1] = %v @ %v, want HGLG11 priced at its last trade 150", hglg.Symbol, hglg.Price)
	}

	bbdc := r.Positions[2]
	if !bbdc.Quantity.Equal(Q(-3)) || !bbdc.Realized.Equal(NO(30)) {
		t.Errorf("BBDC4 = %v realized %v, want -3 realized 30", bbdc.Quantity, bbdc.Realized)
	}

	if !r.TotalValue.Equal(NO(870)) {
		t.Errorf("TotalValue = %v, want 870", r.TotalValue)
	}
}

func TestAllocationAndRebalance(t *testing.T) {
	l := NewLedger("")
	l.AppendAssets(
		Asset{Symbol: "A", Class: Equity, Target: 50},
		Asset{Symbol: "B", Class: Fund, Target: 50},
	)
	l.AppendTrades(buy("2024-01-02", "A", 3, 100, 0), buy("2024-01-02", "B", 1, 100, 0))
	r := NewHoldingReport(l, date.Date{})

	allocs := AllocationBy(r, ByClass)
	if len(allocs) != 2 || allocs[0].Key != "equity" || !allocs[0].Weight.Equal(75) {
		t.Errorf("AllocationBy(ByClass) = %v, want equity 75%% first", allocs)
	}

	moves, total := RebalanceSuggestion(r)
	if len(moves) != 2 {
		t.Fatalf("RebalanceSuggestion() = %v, want 2 moves", moves)
	}
	if moves[0].Symbol != "A" || !moves[0].Amount.Equal(NO(-100)) {
		t.Errorf("moves[0] = %v %v, want A -100", moves[0].Symbol, moves[0].Amount)
	}
	if moves[1].Symbol != "B" || !moves[1].Amount.Equal(NO(100)) {
		t.Errorf("moves[1] = %v %v, want B +100", moves[1].Symbol, moves[1].Amount)
	}
	if !total.Equal(NO(100)) {
		t.Errorf("total = %v, want 100", total)
	}
}
