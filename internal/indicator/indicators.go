// Package indicator derives technical indicator values from price series.
// All functions are pure and degrade to explicit "unavailable" results when a
// series is shorter than the indicator's minimum window.
package indicator

import (
	"math"

	"fx-signal-alerts/internal/market"
)

const (
	trendMinBars     = 20
	rsiPeriod        = 14
	macdMinBars      = 35
	bollingerPeriod  = 20
	atrPeriod        = 14
	levelWindow      = 20
	rsiLossEpsilon   = 0.000001
	bollingerStddevs = 2.0
)

// Trend is the EMA-based trend classification.
type Trend int

const (
	TrendInsufficient Trend = iota
	TrendSideways
	TrendBullish
	TrendStrongBullish
	TrendBearish
	TrendStrongBearish
)

// Bullish reports whether the trend belongs to the bullish family.
func (t Trend) Bullish() bool { return t == TrendBullish || t == TrendStrongBullish }

// Bearish reports whether the trend belongs to the bearish family.
func (t Trend) Bearish() bool { return t == TrendBearish || t == TrendStrongBearish }

func (t Trend) String() string {
	switch t {
	case TrendStrongBullish:
		return "strong bullish"
	case TrendBullish:
		return "bullish"
	case TrendStrongBearish:
		return "strong bearish"
	case TrendBearish:
		return "bearish"
	case TrendSideways:
		return "sideways"
	}
	return "insufficient data"
}

// RSIBand buckets the RSI value into trading zones.
type RSIBand int

const (
	RSIUnavailable RSIBand = iota
	RSIOversold
	RSIBuyLeaning
	RSINeutral
	RSISellLeaning
	RSIOverbought
)

func (b RSIBand) String() string {
	switch b {
	case RSIOversold:
		return "oversold"
	case RSIBuyLeaning:
		return "buy leaning"
	case RSINeutral:
		return "neutral"
	case RSISellLeaning:
		return "sell leaning"
	case RSIOverbought:
		return "overbought"
	}
	return "unavailable"
}

// MACDSignal is the MACD line/signal relation.
type MACDSignal int

const (
	MACDUnavailable MACDSignal = iota
	MACDNeutral
	MACDBullish
	MACDBearish
)

func (m MACDSignal) String() string {
	switch m {
	case MACDBullish:
		return "bullish"
	case MACDBearish:
		return "bearish"
	case MACDNeutral:
		return "no signal"
	}
	return "unavailable"
}

// BollingerBand is the position of the latest close in the channel.
type BollingerBand int

const (
	BollingerUnavailable BollingerBand = iota
	BollingerInside
	BollingerUpper
	BollingerLower
)

func (b BollingerBand) String() string {
	switch b {
	case BollingerUpper:
		return "upper band"
	case BollingerLower:
		return "lower band"
	case BollingerInside:
		return "inside channel"
	}
	return "unavailable"
}

// EMA computes the exponential moving average series with the standard
// recurrence: ema[0]=v[0], ema[t]=v[t]*k + ema[t-1]*(1-k), k=2/(span+1).
func EMA(values []float64, span int) []float64 {
	if len(values) == 0 {
		return nil
	}

	k := 2.0 / (float64(span) + 1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}

// ClassifyTrend places the latest close relative to EMA20 and EMA50. Requires
// at least 20 bars.
func ClassifyTrend(series *market.PriceSeries) Trend {
	if series == nil || series.Len() < trendMinBars {
		return TrendInsufficient
	}

	closes := series.Closes()
	ema20 := EMA(closes, 20)
	ema50 := EMA(closes, 50)

	price := closes[len(closes)-1]
	e20 := ema20[len(ema20)-1]
	e50 := ema50[len(ema50)-1]

	switch {
	case price > e20 && e20 > e50:
		return TrendStrongBullish
	case price > e20:
		return TrendBullish
	case price < e20 && e20 < e50:
		return TrendStrongBearish
	case price < e20:
		return TrendBearish
	}
	return TrendSideways
}

// RSI computes the 14-period RSI on close-to-close differences using a simple
// rolling average of gains and losses. Requires at least 15 bars. A zero
// average loss is replaced with a small epsilon instead of yielding infinity.
func RSI(series *market.PriceSeries) (float64, RSIBand) {
	if series == nil || series.Len() < rsiPeriod+1 {
		return 0, RSIUnavailable
	}

	closes := series.Closes()
	var gains, losses float64
	for i := len(closes) - rsiPeriod; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}

	avgGain := gains / rsiPeriod
	avgLoss := losses / rsiPeriod
	if avgLoss == 0 {
		avgLoss = rsiLossEpsilon
	}

	rs := avgGain / avgLoss
	value := 100 - 100/(1+rs)

	switch {
	case value < 30:
		return value, RSIOversold
	case value > 70:
		return value, RSIOverbought
	case value <= 40:
		return value, RSIBuyLeaning
	case value >= 60:
		return value, RSISellLeaning
	}
	return value, RSINeutral
}

// MACD computes the (12,26,9) MACD relation. Bullish requires both the line
// above the signal and a positive histogram; bearish is the mirror. Requires
// at least 35 bars.
func MACD(series *market.PriceSeries) MACDSignal {
	if series == nil || series.Len() < macdMinBars {
		return MACDUnavailable
	}

	closes := series.Closes()
	ema12 := EMA(closes, 12)
	ema26 := EMA(closes, 26)

	macdLine := make([]float64, len(closes))
	for i := range closes {
		macdLine[i] = ema12[i] - ema26[i]
	}
	signalLine := EMA(macdLine, 9)

	macd := macdLine[len(macdLine)-1]
	signal := signalLine[len(signalLine)-1]
	hist := macd - signal

	switch {
	case macd > signal && hist > 0:
		return MACDBullish
	case macd < signal && hist < 0:
		return MACDBearish
	}
	return MACDNeutral
}

// Bollinger classifies the latest close against SMA(20) +/- 2 standard
// deviations (sample stddev). Requires at least 20 bars.
func Bollinger(series *market.PriceSeries) BollingerBand {
	if series == nil || series.Len() < bollingerPeriod {
		return BollingerUnavailable
	}

	closes := series.Closes()
	window := closes[len(closes)-bollingerPeriod:]

	var sum float64
	for _, v := range window {
		sum += v
	}
	mean := sum / bollingerPeriod

	var sq float64
	for _, v := range window {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / (bollingerPeriod - 1))

	price := closes[len(closes)-1]
	switch {
	case price >= mean+bollingerStddevs*std:
		return BollingerUpper
	case price <= mean-bollingerStddevs*std:
		return BollingerLower
	}
	return BollingerInside
}

// ATR computes the 14-period average true range as a rolling mean. Returns 0
// when fewer than 14 bars are available.
func ATR(series *market.PriceSeries) float64 {
	if series == nil || series.Len() < atrPeriod {
		return 0
	}

	bars := series.Bars
	trs := make([]float64, len(bars))
	trs[0] = bars[0].High - bars[0].Low
	for i := 1; i < len(bars); i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		trs[i] = math.Max(hl, math.Max(hc, lc))
	}

	var sum float64
	for _, tr := range trs[len(trs)-atrPeriod:] {
		sum += tr
	}
	return sum / atrPeriod
}
