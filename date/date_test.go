package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2025-07-01", New(2025, time.July, 1), false},
		{"2025-7-1", New(2025, time.July, 1), false},
		{" 2024-02-29 ", New(2024, time.February, 29), false},
		{"2025-07-01T00:00:00", New(2025, time.July, 1), false},
		{"2025-07-01 10:30:00", New(2025, time.July, 1), false},
		{"01/07/2025", Date{}, true},
		{"", Date{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewNormalizes(t *testing.T) {
	if got, want := New(2025, time.January, 32), New(2025, time.February, 1); got != want {
		t.Errorf("New(2025, 1, 32) = %v, want %v", got, want)
	}
	if got, want := New(2024, time.March, 0), New(2024, time.February, 29); got != want {
		t.Errorf("New(2024, 3, 0) = %v, want %v", got, want)
	}
}

func TestDaysSince(t *testing.T) {
	from := New(2023, time.January, 1)
	if got := New(2024, time.January, 1).DaysSince(from); got != 365 {
		t.Errorf("DaysSince() = %v, want 365", got)
	}
	if got := New(2025, time.January, 1).DaysSince(New(2024, time.January, 1)); got != 366 {
		t.Errorf("DaysSince() over a leap year = %v, want 366", got)
	}
	if got := from.DaysSince(from.Add(3)); got != -3 {
		t.Errorf("DaysSince() = %v, want -3", got)
	}
}

func TestStartEndOf(t *testing.T) {
	d := New(2025, time.September, 10) // a Wednesday
	tests := []struct {
		p          Period
		start, end Date
	}{
		{Daily, d, d},
		{Weekly, New(2025, time.September, 8), New(2025, time.September, 14)},
		{Monthly, New(2025, time.September, 1), New(2025, time.September, 30)},
		{Quarterly, New(2025, time.July, 1), New(2025, time.September, 30)},
		{Yearly, New(2025, time.January, 1), New(2025, time.December, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.p.String(), func(t *testing.T) {
			if got := d.StartOf(tt.p); got != tt.start {
				t.Errorf("StartOf(%v) = %v, want %v", tt.p, got, tt.start)
			}
			if got := d.EndOf(tt.p); got != tt.end {
				t.Errorf("EndOf(%v) = %v, want %v", tt.p, got, tt.end)
			}
		})
	}
}

func TestMinMax(t *testing.T) {
	a, b := New(2024, 1, 1), New(2024, 6, 1)
	if got := Min(Date{}, b, a); got != a {
		t.Errorf("Min() = %v, want %v", got, a)
	}
	if got := Max(a, Date{}, b); got != b {
		t.Errorf("Max() = %v, want %v", got, b)
	}
	if got := Max(); !got.IsZero() {
		t.Errorf("Max() = %v, want zero", got)
	}
}

func TestJSON(t *testing.T) {
	d := New(2025, time.March, 4)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2025-03-04"` {
		t.Errorf("MarshalJSON() = %s, want %q", b, "2025-03-04")
	}
	var got Date
	if err := got.UnmarshalJSON([]byte(`"2025-3-4"`)); err != nil {
		t.Fatal(err)
	}
	if got != d {
		t.Errorf("UnmarshalJSON() = %v, want %v", got, d)
	}
}
