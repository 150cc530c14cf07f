package indicator

import "fx-signal-alerts/internal/market"

// Snapshot is the full indicator state of an instrument at its latest bar.
// Produced fresh on every evaluation cycle and never mutated afterwards.
type Snapshot struct {
	Instrument string
	Price      float64

	Trend     Trend
	RSI       float64
	RSIBand   RSIBand
	MACD      MACDSignal
	Bollinger BollingerBand
	ATR       float64
	Patterns  []Pattern
	Levels    Levels
}

// Evaluate computes a snapshot from the primary series, taking the trend from
// the higher-timeframe series. Both inputs are read-only.
func Evaluate(primary, higher *market.PriceSeries) Snapshot {
	snap := Snapshot{
		Instrument: primary.Instrument,
		Price:      primary.Last().Close,
		Trend:      ClassifyTrend(higher),
		MACD:       MACD(primary),
		Bollinger:  Bollinger(primary),
		ATR:        ATR(primary),
		Patterns:   DetectPatterns(primary),
		Levels:     FindLevels(primary),
	}
	snap.RSI, snap.RSIBand = RSI(primary)
	return snap
}
