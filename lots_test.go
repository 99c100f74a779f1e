package carteira

import "testing"

func TestBookFIFOExample(t *testing.T) {
	b := NewBook()
	b.Buy(buy("2024-01-02", "ITUB4", 10, 100, 0))
	b.Buy(buy("2024-01-03", "ITUB4", 10, 120, 0))
	r := b.Sell(sell("2024-01-04", "ITUB4", 15, 150, 0))

	if !r.Cost.Equal(NO(1600)) {
		t.Errorf("Cost = %v, want 1600", r.Cost)
	}
	if !r.Proceeds.Equal(NO(2250)) {
		t.Errorf("Proceeds = %v, want 2250", r.Proceeds)
	}
	if !r.Realized.Equal(NO(650)) {
		t.Errorf("Realized = %v, want 650", r.Realized)
	}
	if !r.Uncovered.IsZero() {
		t.Errorf("Uncovered = %v, want 0", r.Uncovered)
	}

	lots := b.Lots("ITUB4")
	if len(lots) != 1 {
		t.Fatalf("Lots() = %v, want a single lot", lots)
	}
	if !lots[0].Quantity.Equal(Q(5)) || !lots[0].UnitCost.Equal(NO(120)) {
		t.Errorf("Lots()[0] = %v @ %v, want 5 @ 120", lots[0].Quantity, lots[0].UnitCost)
	}
	if lots[0].Date != day("2024-01-03") {
		t.Errorf("Lots()[0].Date = %v, want 2024-01-03", lots[0].Date)
	}
	if got := b.Remaining("ITUB4"); !got.Equal(Q(5)) {
		t.Errorf("Remaining() = %v, want 5", got)
	}
	if got := b.CostBasis("ITUB4"); !got.Equal(NO(600)) {
		t.Errorf("CostBasis() = %v, want 600", got)
	}
}

func TestBookFeesInCost(t *testing.T) {
	b := NewBook()
	b.Buy(buy("2024-01-02", "ABEV3", 100, 12, 10))
	if got := b.AverageCost("ABEV3"); !got.Equal(NO(12.1)) {
		t.Errorf("AverageCost() = %v, want 12.1", got)
	}
	r := b.Sell(sell("2024-01-03", "ABEV3", 50, 13, 5))
	// proceeds 650 - 5, cost half of 1210
	if !r.Proceeds.Equal(NO(645)) || !r.Cost.Equal(NO(605)) || !r.Realized.Equal(NO(40)) {
		t.Errorf("Sell() = proceeds %v cost %v realized %v, want 645 605 40", r.Proceeds, r.Cost, r.Realized)
	}
}

func TestBookUncoveredSell(t *testing.T) {
	b := NewBook()
	b.Buy(buy("2024-01-02", "MGLU3", 10, 5, 0))
	r := b.Sell(sell("2024-01-03", "MGLU3", 15, 6, 0))
	if !r.Uncovered.Equal(Q(5)) {
		t.Errorf("Uncovered = %v, want 5", r.Uncovered)
	}
	if !r.Cost.Equal(NO(50)) || !r.Realized.Equal(NO(40)) {
		t.Errorf("Cost, Realized = %v, %v, want 50, 40", r.Cost, r.Realized)
	}
	if got := b.Remaining("MGLU3"); !got.IsZero() {
		t.Errorf("Remaining() = %v, want 0", got)
	}

	// a sell against an empty book is realized at zero cost.
	r = b.Sell(sell("2024-01-04", "PRIO3", 2, 40, 0))
	if !r.Uncovered.Equal(Q(2)) || !r.Realized.Equal(NO(80)) {
		t.Errorf("empty book Sell() = uncovered %v realized %v, want 2 80", r.Uncovered, r.Realized)
	}
	if got := b.AverageCost("PRIO3"); !got.IsZero() {
		t.Errorf("AverageCost() = %v, want 0", got)
	}
}

func TestBookFractional(t *testing.T) {
	b := NewBook()
	b.Buy(buy("2024-01-02", "IVVB11", 0.3, 100, 0))
	b.Buy(buy("2024-01-03", "IVVB11", 0.7, 110, 0))
	r := b.Sell(sell("2024-01-04", "IVVB11", 0.5, 120, 0))
	if !r.Cost.Equal(NO(52)) {
		t.Errorf("Cost = %v, want 52", r.Cost)
	}
	if got := b.Remaining("IVVB11"); !got.Equal(Q(0.5)) {
		t.Errorf("Remaining() = %v, want 0.5", got)
	}
}
