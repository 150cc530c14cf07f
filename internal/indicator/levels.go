package indicator

import "fx-signal-alerts/internal/market"

// Levels holds the nearest support and resistance around the latest close.
type Levels struct {
	Support       float64
	Resistance    float64
	HasSupport    bool
	HasResistance bool
}

// FindLevels derives support/resistance from rolling 20-bar extrema: the
// de-duplicated rolling max of highs forms resistance candidates, the rolling
// min of lows support candidates. The nearest support is the greatest level
// below the current price, the nearest resistance the smallest level above it.
func FindLevels(series *market.PriceSeries) Levels {
	if series == nil || series.Len() < levelWindow {
		return Levels{}
	}

	bars := series.Bars
	price := series.Last().Close

	var levels Levels
	for i := levelWindow - 1; i < len(bars); i++ {
		high := bars[i].High
		low := bars[i].Low
		for j := i - levelWindow + 1; j < i; j++ {
			if bars[j].High > high {
				high = bars[j].High
			}
			if bars[j].Low < low {
				low = bars[j].Low
			}
		}

		if low < price && (!levels.HasSupport || low > levels.Support) {
			levels.Support = low
			levels.HasSupport = true
		}
		if high > price && (!levels.HasResistance || high < levels.Resistance) {
			levels.Resistance = high
			levels.HasResistance = true
		}
	}

	return levels
}
