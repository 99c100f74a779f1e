package carteira

import (
	"testing"

	"github.com/etnz/carteira/date"
)

func TestReconstructDailyPositions(t *testing.T) {
	trades := []Trade{
		buy("2024-01-02", "PETR4", 10, 30, 1),
		buy("2024-01-04", "VALE3", 5, 60, 0),
		sell("2024-01-05", "PETR4", 4, 33, 0.5),
	}
	prices := []PriceObservation{
		price("2024-01-01", "PETR4", 29),
		price("2024-01-03", "PETR4", 31),
		price("2024-01-05", "VALE3", 62),
		price("2024-01-05", "PETR4", 33),
	}
	dists := []Distribution{{Date: day("2024-01-03"), Symbol: "PETR4", Kind: "dividend", Amount: NO(2.5)}}

	got := ReconstructDailyPositions(trades, prices, dists, date.Date{})

	if len(got) != 5 {
		t.Fatalf("len(ReconstructDailyPositions()) = %v, want 5", len(got))
	}
	if got[0].Date != day("2024-01-01") || got[4].Date != day("2024-01-05") {
		t.Errorf("calendar = %v..%v, want 2024-01-01..2024-01-05", got[0].Date, got[4].Date)
	}

	tests := []struct {
		day                                   string
		value, contrib, withdraw, distributed float64
	}{
		{"2024-01-01", 0, 0, 0, 0},
		{"2024-01-02", 290, 301, 0, 0},       // 10 × 29 forward-filled
		{"2024-01-03", 310, 0, 0, 2.5},       // 10 × 31
		{"2024-01-04", 310, 300, 0, 0},       // VALE3 has no price yet
		{"2024-01-05", 508, 0, 131.5, 0},     // 6 × 33 + 5 × 62, 4 × 33 - 0.5
	}
	for i, tt := range tests {
		s := got[i]
		if s.Date != day(tt.day) {
			t.Fatalf("snapshot[%d].Date = %v, want %v", i, s.Date, tt.day)
		}
		if !s.Value.Equal(NO(tt.value)) {
			t.Errorf("%s Value = %v, want %v", tt.day, s.Value, tt.value)
		}
		if !s.Contributions.Equal(NO(tt.contrib)) {
			t.Errorf("%s Contributions = %v, want %v", tt.day, s.Contributions, tt.contrib)
		}
		if !s.Withdrawals.Equal(NO(tt.withdraw)) {
			t.Errorf("%s Withdrawals = %v, want %v", tt.day, s.Withdrawals, tt.withdraw)
		}
		if !s.Distributions.Equal(NO(tt.distributed)) {
			t.Errorf("%s Distributions = %v, want %v", tt.day, s.Distributions, tt.distributed)
		}
	}
}

func TestReconstructionEmpty(t *testing.T) {
	if got := ReconstructDailyPositions(nil, nil, nil, day("2024-01-01")); len(got) != 0 {
		t.Errorf("ReconstructDailyPositions(nil, nil) = %v, want empty", got)
	}
	r := NewReconstruction(nil, nil, nil, date.Date{})
	if !r.Range().IsZero() {
		t.Errorf("Range() = %v, want zero", r.Range())
	}
}

func TestReconstructionAsOf(t *testing.T) {
	trades := []Trade{
		buy("2024-01-02", "ITSA4", 100, 10, 0),
		buy("2024-01-10", "ITSA4", 100, 11, 0),
	}
	prices := []PriceObservation{price("2024-01-02", "ITSA4", 10)}

	r := NewReconstruction(trades, prices, nil, day("2024-01-05"))
	snaps := r.Snapshots()
	if len(snaps) != 4 {
		t.Fatalf("len(Snapshots()) = %v, want 4", len(snaps))
	}
	if q := r.Quantity("ITSA4", day("2024-01-05")); !q.Equal(Q(100)) {
		t.Errorf("Quantity() = %v, want 100 (later trades are ignored)", q)
	}

	// asOf after the ledger extends the calendar with forward-filled prices.
	r = NewReconstruction(trades, prices, nil, day("2024-01-20"))
	if n := len(r.Snapshots()); n != 19 {
		t.Errorf("len(Snapshots()) = %v, want 19", n)
	}
	last := r.Snapshots()[18]
	if !last.Value.Equal(NO(2000)) {
		t.Errorf("last Value = %v, want 2000", last.Value)
	}

	// asOf before any record.
	if got := ReconstructDailyPositions(trades, prices, nil, day("2023-12-31")); len(got) != 0 {
		t.Errorf("ReconstructDailyPositions(asOf before) = %v, want empty", got)
	}
}

func TestReconstructionNegativePosition(t *testing.T) {
	trades := []Trade{sell("2024-03-01", "BBAS3", 10, 50, 0)}
	prices := []PriceObservation{price("2024-03-01", "BBAS3", 50)}
	r := NewReconstruction(trades, prices, nil, date.Date{})
	if q := r.Quantity("BBAS3", day("2024-03-01")); !q.Equal(Q(-10)) {
		t.Errorf("Quantity() = %v, want -10", q)
	}
	if v := r.Snapshots()[0].Value; !v.Equal(NO(-500)) {
		t.Errorf("Value = %v, want -500", v)
	}
}

func TestReconstructionLastPriceWins(t *testing.T) {
	trades := []Trade{buy("2024-01-02", "WEGE3", 1, 40, 0)}
	prices := []PriceObservation{price("2024-01-02", "WEGE3", 40), price("2024-01-02", "WEGE3", 41)}
	r := NewReconstruction(trades, prices, nil, date.Date{})
	if p, ok := r.Price("WEGE3", day("2024-01-02")); !ok || !p.Equal(NO(41)) {
		t.Errorf("Price() = %v, %v, want 41, true", p, ok)
	}
}

// held quantity must match the FIFO book for ledgers without uncovered sells.
func TestQuantityReconciliation(t *testing.T) {
	trades := []Trade{
		buy("2024-01-02", "A", 10, 10, 0),
		buy("2024-01-03", "B", 3, 10, 0),
		sell("2024-01-04", "A", 4, 12, 0),
		buy("2024-01-05", "A", 2.5, 11, 0),
		sell("2024-01-06", "B", 3, 9, 0),
		sell("2024-01-07", "A", 8.5, 13, 1),
	}
	r := NewReconstruction(trades, nil, nil, date.Date{})
	for d := range r.Range().Days() {
		var upTo []Trade
		for _, tr := range trades {
			if !tr.Date.After(d) {
				upTo = append(upTo, tr)
			}
		}
		book := FIFOBook(upTo)
		for _, s := range []string{"A", "B"} {
			if got, want := r.Quantity(s, d), book.Remaining(s); !got.Equal(want) {
				t.Errorf("%v %s: Quantity() = %v, Remaining() = %v", d, s, got, want)
			}
		}
	}
}

func TestResample(t *testing.T) {
	snap := func(on string, value, contrib float64) DailySnapshot {
		return DailySnapshot{Date: day(on), Value: NO(value), Contributions: NO(contrib), Withdrawals: NO(0), Distributions: NO(0)}
	}
	daily := []DailySnapshot{
		snap("2024-01-30", 100, 100),
		snap("2024-01-31", 110, 0),
		snap("2024-02-01", 210, 100),
		snap("2024-02-02", 220, 50),
	}

	got := Resample(daily, date.Monthly)
	if len(got) != 2 {
		t.Fatalf("len(Resample()) = %d, want 2", len(got))
	}
	tests := []struct {
		day            string
		value, contrib float64
	}{
		{"2024-01-31", 110, 100},
		{"2024-02-02", 220, 150},
	}
	for i, tt := range tests {
		if got[i].Date != day(tt.day) || !got[i].Value.Equal(NO(tt.value)) || !got[i].Contributions.Equal(NO(tt.contrib)) {
			t.Errorf("Resample()[%d] = %v %v %v, want %v %v %v", i, got[i].Date, got[i].Value, got[i].Contributions, tt.day, tt.value, tt.contrib)
		}
	}

	if got := Resample(nil, date.Monthly); got != nil {
		t.Errorf("Resample(nil) = %v, want nil", got)
	}
}
