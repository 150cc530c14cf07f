package market

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSyntheticFetchShape(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 6, 2, 14, 37, 0, 0, time.UTC) }
	src := NewSynthetic(SyntheticOptions{Seed: 42, Now: now}, zerolog.Nop())

	series, err := src.Fetch(context.Background(), "EURUSD", IntervalH1, 100)
	if err != nil {
		t.Fatal(err)
	}
	if series.Len() != 100 {
		t.Fatalf("got %d bars, want 100", series.Len())
	}
	if series.Instrument != "EURUSD" || series.Interval != IntervalH1 {
		t.Fatalf("unexpected identity: %s %s", series.Instrument, series.Interval)
	}

	// Bars end at the current interval boundary.
	if last := series.Last().Time; !last.Equal(time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)) {
		t.Fatalf("last bar at %v, want the truncated hour", last)
	}
}

func TestSyntheticDeterministicWithinBoundary(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 6, 2, 14, 37, 0, 0, time.UTC) }
	src := NewSynthetic(SyntheticOptions{Seed: 42, Now: now}, zerolog.Nop())

	first, err := src.Fetch(context.Background(), "XAUUSD", IntervalH1, 50)
	if err != nil {
		t.Fatal(err)
	}
	second, err := src.Fetch(context.Background(), "XAUUSD", IntervalH1, 50)
	if err != nil {
		t.Fatal(err)
	}

	for i := range first.Bars {
		if first.Bars[i] != second.Bars[i] {
			t.Fatalf("bar %d differs between fetches", i)
		}
	}
}

func TestSyntheticInstrumentsDiffer(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 6, 2, 14, 37, 0, 0, time.UTC) }
	src := NewSynthetic(SyntheticOptions{Seed: 42, Now: now}, zerolog.Nop())

	eur, err := src.Fetch(context.Background(), "EURUSD", IntervalH1, 20)
	if err != nil {
		t.Fatal(err)
	}
	gbp, err := src.Fetch(context.Background(), "GBPUSD", IntervalH1, 20)
	if err != nil {
		t.Fatal(err)
	}

	if eur.Last().Close == gbp.Last().Close {
		t.Fatal("different instruments should not share a walk")
	}
}

func TestSyntheticPing(t *testing.T) {
	src := NewSynthetic(SyntheticOptions{}, zerolog.Nop())
	if err := src.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
