package signal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fx-signal-alerts/internal/indicator"
)

const (
	trendPoints     = 20
	rsiPoints       = 15
	macdPoints      = 15
	bollingerPoints = 10
	patternPoints   = 10
	levelPoints     = 15

	actionThreshold  = 30
	lowRiskThreshold = 50

	// Price within 0.2% of a level counts as proximity.
	levelProximity = 0.002

	priceDecimals = 5

	stopLossATRs   = 1.5
	takeProfitATRs = 2.5
)

// Score maps a snapshot to a signal. Returns false when the snapshot carries
// no trend classification; with no usable series there is nothing to score.
func Score(snap indicator.Snapshot, at time.Time) (Signal, bool) {
	if snap.Trend == indicator.TrendInsufficient {
		return Signal{}, false
	}

	var points int
	var reasons []string

	switch {
	case snap.Trend.Bullish():
		points += trendPoints
		reasons = append(reasons, "uptrend")
	case snap.Trend.Bearish():
		points -= trendPoints
		reasons = append(reasons, "downtrend")
	}

	switch snap.RSIBand {
	case indicator.RSIOversold, indicator.RSIBuyLeaning:
		points += rsiPoints
		reasons = append(reasons, fmt.Sprintf("RSI oversold (%.1f)", snap.RSI))
	case indicator.RSIOverbought, indicator.RSISellLeaning:
		points -= rsiPoints
		reasons = append(reasons, fmt.Sprintf("RSI overbought (%.1f)", snap.RSI))
	}

	switch snap.MACD {
	case indicator.MACDBullish:
		points += macdPoints
		reasons = append(reasons, "bullish MACD")
	case indicator.MACDBearish:
		points -= macdPoints
		reasons = append(reasons, "bearish MACD")
	}

	switch snap.Bollinger {
	case indicator.BollingerLower:
		points += bollingerPoints
		reasons = append(reasons, "lower Bollinger band")
	case indicator.BollingerUpper:
		points -= bollingerPoints
		reasons = append(reasons, "upper Bollinger band")
	}

	for _, pattern := range snap.Patterns {
		switch {
		case pattern.Bullish():
			points += patternPoints
			reasons = append(reasons, fmt.Sprintf("pattern: %s", pattern))
		case pattern.Bearish():
			points -= patternPoints
			reasons = append(reasons, fmt.Sprintf("pattern: %s", pattern))
		}
	}

	if snap.Levels.HasSupport && nearLevel(snap.Price, snap.Levels.Support) {
		points += levelPoints
		reasons = append(reasons, fmt.Sprintf("support %.5f", snap.Levels.Support))
	}
	if snap.Levels.HasResistance && nearLevel(snap.Price, snap.Levels.Resistance) {
		points -= levelPoints
		reasons = append(reasons, fmt.Sprintf("resistance %.5f", snap.Levels.Resistance))
	}

	sig := Signal{
		Instrument:  snap.Instrument,
		Action:      ActionHold,
		Entry:       roundPrice(snap.Price),
		Confidence:  clampConfidence(50 + points),
		Risk:        RiskMedium,
		Reasons:     reasons,
		EvaluatedAt: at,
	}

	switch {
	case points >= actionThreshold:
		sig.Action = ActionBuy
		if points >= lowRiskThreshold {
			sig.Risk = RiskLow
		}
	case points <= -actionThreshold:
		sig.Action = ActionSell
		if points <= -lowRiskThreshold {
			sig.Risk = RiskLow
		}
	}

	sig.StopLoss, sig.TakeProfit = protectionLevels(sig.Action, snap.Price, snap.ATR)
	return sig, true
}

// protectionLevels sizes stop-loss and take-profit as ATR multiples. HOLD
// carries zero sentinels, not real prices.
func protectionLevels(action Action, price, atr float64) (decimal.Decimal, decimal.Decimal) {
	switch action {
	case ActionBuy:
		return roundPrice(price - stopLossATRs*atr), roundPrice(price + takeProfitATRs*atr)
	case ActionSell:
		return roundPrice(price + stopLossATRs*atr), roundPrice(price - takeProfitATRs*atr)
	}
	return decimal.Zero, decimal.Zero
}

func nearLevel(price, level float64) bool {
	if level == 0 {
		return false
	}
	diff := price - level
	if diff < 0 {
		diff = -diff
	}
	return diff/level < levelProximity
}

func roundPrice(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(priceDecimals)
}

func clampConfidence(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
