package indicator

import (
	"testing"
	"time"

	"fx-signal-alerts/internal/market"
)

func seriesFromBars(t *testing.T, bars []market.Bar) *market.PriceSeries {
	t.Helper()

	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i].Time = start.Add(time.Duration(i) * time.Hour)
	}

	series, err := market.NewPriceSeries("EURUSD", market.IntervalH1, bars)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	return series
}

func flatBar(v float64) market.Bar {
	return market.Bar{Open: v, High: v + 1, Low: v - 1, Close: v + 0.5, Volume: 100}
}

func TestDetectPatternsNeedsThreeBars(t *testing.T) {
	bars := []market.Bar{
		{Open: 100, High: 101, Low: 95, Close: 100.2},
		{Open: 100, High: 101, Low: 95, Close: 100.2},
	}
	if got := DetectPatterns(seriesFromBars(t, bars)); got != nil {
		t.Fatalf("2 bars: got %v, want none", got)
	}
	if got := DetectPatterns(nil); got != nil {
		t.Fatalf("nil series: got %v, want none", got)
	}
}

func TestDetectHammer(t *testing.T) {
	// Body 1.0, lower shadow 4.8 (> 2x body), no upper shadow.
	bars := []market.Bar{
		flatBar(100), flatBar(100),
		{Open: 100, High: 101, Low: 95.2, Close: 101},
	}

	got := DetectPatterns(seriesFromBars(t, bars))
	if len(got) != 1 || got[0] != PatternHammer {
		t.Fatalf("got %v, want [hammer]", got)
	}
	if !PatternHammer.Bullish() {
		t.Fatal("hammer must score bullish")
	}
}

func TestDetectBullishEngulfing(t *testing.T) {
	bars := []market.Bar{
		flatBar(100),
		{Open: 101, High: 101.2, Low: 99.8, Close: 100}, // bearish
		{Open: 99.9, High: 101.4, Low: 99.8, Close: 101.2},
	}

	got := DetectPatterns(seriesFromBars(t, bars))
	if len(got) != 1 || got[0] != PatternBullishEngulfing {
		t.Fatalf("got %v, want [bullish engulfing]", got)
	}
}

func TestDetectBearishEngulfing(t *testing.T) {
	bars := []market.Bar{
		flatBar(100),
		{Open: 100, High: 101.2, Low: 99.8, Close: 101}, // bullish
		{Open: 101.1, High: 101.3, Low: 99.5, Close: 99.8},
	}

	got := DetectPatterns(seriesFromBars(t, bars))
	if len(got) != 1 || got[0] != PatternBearishEngulfing {
		t.Fatalf("got %v, want [bearish engulfing]", got)
	}
	if !PatternBearishEngulfing.Bearish() {
		t.Fatal("bearish engulfing must score bearish")
	}
}

func TestDetectDoji(t *testing.T) {
	// Body 0.05 against a range of 2.0.
	bars := []market.Bar{
		flatBar(100), flatBar(100),
		{Open: 100, High: 101, Low: 99, Close: 100.05},
	}

	got := DetectPatterns(seriesFromBars(t, bars))
	if len(got) != 1 || got[0] != PatternDoji {
		t.Fatalf("got %v, want [doji]", got)
	}
	if PatternDoji.Bullish() || !PatternDoji.Bearish() {
		t.Fatal("doji must score bearish")
	}
}

func TestDetectPatternsCoOccur(t *testing.T) {
	// A perfect doji with a long lower shadow is also a hammer.
	bars := []market.Bar{
		flatBar(100), flatBar(100),
		{Open: 100.5, High: 100.505, Low: 99, Close: 100.505},
	}

	got := DetectPatterns(seriesFromBars(t, bars))
	if len(got) != 2 || got[0] != PatternHammer || got[1] != PatternDoji {
		t.Fatalf("got %v, want [hammer doji]", got)
	}
}
