package carteira

import (
	"math"
	"testing"
)

func TestXIRR(t *testing.T) {
	tests := []struct {
		name  string
		flows []CashFlow
		guess float64
		want  float64
	}{
		{
			name:  "one year 10%",
			flows: []CashFlow{{day("2023-01-01"), -1000}, {day("2024-01-01"), 1100}},
			want:  0.1,
		},
		{
			name:  "one year 25% far guess",
			flows: []CashFlow{{day("2023-01-01"), -1000}, {day("2024-01-01"), 1250}},
			guess: 2,
			want:  0.25,
		},
		{
			name:  "loss",
			flows: []CashFlow{{day("2023-01-01"), -1000}, {day("2024-01-01"), 700}},
			want:  -0.3,
		},
		{
			name:  "half year",
			flows: []CashFlow{{day("2023-01-01"), -1000}, {day("2023-07-02"), 1050}},
			want:  math.Pow(1.05, 365.0/182) - 1,
		},
		{
			name:  "unsorted flows",
			flows: []CashFlow{{day("2024-01-01"), 1100}, {day("2023-01-01"), -1000}},
			want:  0.1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := XIRR(tt.flows, tt.guess)
			if !got.Converged {
				t.Errorf("XIRR() did not converge after %d iterations: %v", got.Iterations, got.Rate)
			}
			if !near(got.Rate, tt.want, 1e-6) {
				t.Errorf("XIRR() = %v, want %v", got.Rate, tt.want)
			}
		})
	}
}

func TestXIRRMultipleFlows(t *testing.T) {
	flows := []CashFlow{
		{day("2023-01-01"), -1000},
		{day("2023-04-01"), -500},
		{day("2023-09-15"), 200},
		{day("2024-01-01"), 1500},
	}
	got := XIRR(flows, 0.1)
	if !got.Converged {
		t.Fatalf("XIRR() did not converge: %+v", got)
	}
	t0 := flows[0].Date
	if npv := xnpv(got.Rate, flows, t0); !near(npv, 0, 1e-6) {
		t.Errorf("xnpv(XIRR()) = %v, want 0", npv)
	}
}

func TestXIRRDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		flows []CashFlow
	}{
		{"empty", nil},
		{"only outflows", []CashFlow{{day("2023-01-01"), -1000}, {day("2023-06-01"), -10}}},
		{"only inflows", []CashFlow{{day("2023-01-01"), 1000}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := XIRR(tt.flows, 0.1); got.Rate != 0 {
				t.Errorf("XIRR() = %v, want 0", got.Rate)
			}
		})
	}
}

func TestCashFlows(t *testing.T) {
	snaps := []DailySnapshot{
		{Date: day("2024-01-01"), Value: NO(100), Contributions: NO(100)},
		{Date: day("2024-01-02"), Value: NO(105)},
		{Date: day("2024-01-03"), Value: NO(80), Withdrawals: NO(30), Distributions: NO(1)},
	}
	got := CashFlows(snaps)
	want := []CashFlow{
		{day("2024-01-01"), -100},
		{day("2024-01-03"), 31},
		{day("2024-01-03"), 80},
	}
	if len(got) != len(want) {
		t.Fatalf("CashFlows() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].Date != want[i].Date || !near(got[i].Amount, want[i].Amount, 1e-12) {
			t.Errorf("CashFlows()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if got := CashFlows(nil); got != nil {
		t.Errorf("CashFlows(nil) = %v, want nil", got)
	}
}
