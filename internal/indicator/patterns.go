package indicator

import "fx-signal-alerts/internal/market"

// Pattern names a detected candlestick formation.
type Pattern string

const (
	PatternHammer           Pattern = "hammer"
	PatternBullishEngulfing Pattern = "bullish engulfing"
	PatternBearishEngulfing Pattern = "bearish engulfing"
	PatternDoji             Pattern = "doji"
)

// Bullish reports whether the pattern is scored as bullish. Doji is scored
// bearish here, reproducing the upstream behaviour this engine replaces.
func (p Pattern) Bullish() bool {
	return p == PatternHammer || p == PatternBullishEngulfing
}

// Bearish reports whether the pattern is scored as bearish.
func (p Pattern) Bearish() bool {
	return p == PatternBearishEngulfing || p == PatternDoji
}

// DetectPatterns inspects the last one to two completed bars. Multiple
// patterns may co-occur; the result preserves detection order.
func DetectPatterns(series *market.PriceSeries) []Pattern {
	if series == nil || series.Len() < 3 {
		return nil
	}

	var patterns []Pattern

	last := series.Last()
	prev := series.Bars[series.Len()-2]

	if isHammer(last) {
		patterns = append(patterns, PatternHammer)
	}
	if isBullishEngulfing(prev, last) {
		patterns = append(patterns, PatternBullishEngulfing)
	} else if isBearishEngulfing(prev, last) {
		patterns = append(patterns, PatternBearishEngulfing)
	}
	if isDoji(last) {
		patterns = append(patterns, PatternDoji)
	}

	return patterns
}

func isHammer(bar market.Bar) bool {
	body := abs(bar.Close - bar.Open)
	lowerShadow := min(bar.Open, bar.Close) - bar.Low
	upperShadow := bar.High - max(bar.Open, bar.Close)
	return lowerShadow > body*2 && upperShadow < body*0.1
}

func isBullishEngulfing(prev, cur market.Bar) bool {
	return prev.Close < prev.Open && // first bar bearish
		cur.Close > cur.Open && // second bar bullish
		cur.Open < prev.Close && // opens below previous close
		cur.Close > prev.Open // closes above previous open
}

func isBearishEngulfing(prev, cur market.Bar) bool {
	return prev.Close > prev.Open &&
		cur.Close < cur.Open &&
		cur.Open > prev.Close &&
		cur.Close < prev.Open
}

func isDoji(bar market.Bar) bool {
	body := abs(bar.Close - bar.Open)
	fullRange := bar.High - bar.Low
	return body <= fullRange*0.1
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
