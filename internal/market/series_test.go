package market

import (
	"testing"
	"time"
)

func TestParseInterval(t *testing.T) {
	for _, name := range []string{"M15", "H1", "H4", "D1"} {
		got, err := ParseInterval(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if string(got) != name {
			t.Fatalf("got %v, want %v", got, name)
		}
	}

	if _, err := ParseInterval("H2"); err == nil {
		t.Fatal("expected an error for an unsupported interval")
	}
}

func TestIntervalDuration(t *testing.T) {
	if got := IntervalH4.Duration(); got != 4*time.Hour {
		t.Fatalf("H4 duration = %v, want 4h", got)
	}
	if got := IntervalM15.Duration(); got != 15*time.Minute {
		t.Fatalf("M15 duration = %v, want 15m", got)
	}
}

func TestNewPriceSeriesValidation(t *testing.T) {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	good := []Bar{
		{Time: base, Open: 1.0, High: 1.2, Low: 0.9, Close: 1.1},
		{Time: base.Add(time.Hour), Open: 1.1, High: 1.3, Low: 1.0, Close: 1.2},
	}

	series, err := NewPriceSeries("EURUSD", IntervalH1, good)
	if err != nil {
		t.Fatalf("valid bars rejected: %v", err)
	}
	if series.Len() != 2 || series.Last().Close != 1.2 {
		t.Fatalf("unexpected series: %+v", series)
	}

	cases := []struct {
		name string
		bars []Bar
	}{
		{"empty", nil},
		{"out of order", []Bar{
			{Time: base.Add(time.Hour), Open: 1, High: 1.1, Low: 0.9, Close: 1},
			{Time: base, Open: 1, High: 1.1, Low: 0.9, Close: 1},
		}},
		{"duplicate timestamp", []Bar{
			{Time: base, Open: 1, High: 1.1, Low: 0.9, Close: 1},
			{Time: base, Open: 1, High: 1.1, Low: 0.9, Close: 1},
		}},
		{"high below close", []Bar{
			{Time: base, Open: 1, High: 1.05, Low: 0.9, Close: 1.1},
		}},
		{"low above open", []Bar{
			{Time: base, Open: 1, High: 1.1, Low: 1.02, Close: 1.1},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewPriceSeries("EURUSD", IntervalH1, tc.bars); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if _, err := NewPriceSeries("", IntervalH1, good); err == nil {
		t.Fatal("expected an error for an empty instrument")
	}
}

func TestSeriesAccessors(t *testing.T) {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]Bar, 5)
	for i := range bars {
		v := 1.0 + float64(i)*0.1
		bars[i] = Bar{Time: base.Add(time.Duration(i) * time.Hour), Open: v, High: v + 0.1, Low: v - 0.1, Close: v}
	}

	series, err := NewPriceSeries("EURUSD", IntervalH1, bars)
	if err != nil {
		t.Fatal(err)
	}

	closes := series.Closes()
	if len(closes) != 5 || closes[0] != 1.0 || closes[4] != 1.4 {
		t.Fatalf("closes = %v", closes)
	}

	if tail := series.Tail(2); len(tail) != 2 || tail[0].Close != 1.3 {
		t.Fatalf("tail = %v", tail)
	}
	if tail := series.Tail(10); len(tail) != 5 {
		t.Fatalf("oversized tail = %d bars, want full series", len(tail))
	}
}
