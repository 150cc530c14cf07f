package signal

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fx-signal-alerts/internal/indicator"
)

var scoreTime = time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

func bullishSnapshot() indicator.Snapshot {
	return indicator.Snapshot{
		Instrument: "EURUSD",
		Price:      110,
		Trend:      indicator.TrendStrongBullish,
		RSI:        25,
		RSIBand:    indicator.RSIOversold,
		MACD:       indicator.MACDBullish,
		Bollinger:  indicator.BollingerLower,
		ATR:        2,
		Patterns:   []indicator.Pattern{indicator.PatternBullishEngulfing},
		Levels:     indicator.Levels{Support: 109.8, HasSupport: true},
	}
}

func TestScoreFullConfluenceBuy(t *testing.T) {
	// 20+15+15+10+10+15 = 85 points.
	sig, ok := Score(bullishSnapshot(), scoreTime)
	if !ok {
		t.Fatal("expected a signal")
	}

	if sig.Action != ActionBuy {
		t.Fatalf("action = %v, want BUY", sig.Action)
	}
	if sig.Confidence != 100 {
		t.Fatalf("confidence = %d, want 100 (clamped)", sig.Confidence)
	}
	if sig.Risk != RiskLow {
		t.Fatalf("risk = %v, want LOW", sig.Risk)
	}

	wantReasons := []string{
		"uptrend",
		"RSI oversold (25.0)",
		"bullish MACD",
		"lower Bollinger band",
		"pattern: bullish engulfing",
		"support 109.80000",
	}
	if !reflect.DeepEqual(sig.Reasons, wantReasons) {
		t.Fatalf("reasons = %v, want %v", sig.Reasons, wantReasons)
	}
	if !sig.EvaluatedAt.Equal(scoreTime) {
		t.Fatalf("evaluated at = %v, want %v", sig.EvaluatedAt, scoreTime)
	}
}

func TestScoreBuyProtectionLevels(t *testing.T) {
	sig, _ := Score(bullishSnapshot(), scoreTime)

	// Entry 110, ATR 2: SL = 110 - 3, TP = 110 + 5.
	if want := decimal.NewFromInt(110); !sig.Entry.Equal(want) {
		t.Fatalf("entry = %v, want %v", sig.Entry, want)
	}
	if want := decimal.NewFromInt(107); !sig.StopLoss.Equal(want) {
		t.Fatalf("stop loss = %v, want %v", sig.StopLoss, want)
	}
	if want := decimal.NewFromInt(115); !sig.TakeProfit.Equal(want) {
		t.Fatalf("take profit = %v, want %v", sig.TakeProfit, want)
	}
}

func TestScoreSellMirror(t *testing.T) {
	snap := indicator.Snapshot{
		Instrument: "GBPUSD",
		Price:      110,
		Trend:      indicator.TrendStrongBearish,
		RSI:        75,
		RSIBand:    indicator.RSIOverbought,
		MACD:       indicator.MACDBearish,
		Bollinger:  indicator.BollingerUpper,
		ATR:        2,
		Patterns:   []indicator.Pattern{indicator.PatternBearishEngulfing},
		Levels:     indicator.Levels{Resistance: 110.1, HasResistance: true},
	}

	sig, ok := Score(snap, scoreTime)
	if !ok {
		t.Fatal("expected a signal")
	}
	if sig.Action != ActionSell {
		t.Fatalf("action = %v, want SELL", sig.Action)
	}
	if sig.Confidence != 0 {
		t.Fatalf("confidence = %d, want 0 (clamped)", sig.Confidence)
	}
	if sig.Risk != RiskLow {
		t.Fatalf("risk = %v, want LOW", sig.Risk)
	}
	// SELL flips the brackets: SL above entry, TP below.
	if want := decimal.NewFromInt(113); !sig.StopLoss.Equal(want) {
		t.Fatalf("stop loss = %v, want %v", sig.StopLoss, want)
	}
	if want := decimal.NewFromInt(105); !sig.TakeProfit.Equal(want) {
		t.Fatalf("take profit = %v, want %v", sig.TakeProfit, want)
	}
}

func TestScoreConfluenceWithoutPatternOrLevel(t *testing.T) {
	// 20+15+15+10 = 60 points: clamped confidence, low risk.
	snap := bullishSnapshot()
	snap.Patterns = nil
	snap.Levels = indicator.Levels{}

	sig, ok := Score(snap, scoreTime)
	if !ok {
		t.Fatal("expected a signal")
	}
	if sig.Action != ActionBuy {
		t.Fatalf("action = %v, want BUY", sig.Action)
	}
	if sig.Confidence != 100 {
		t.Fatalf("confidence = %d, want 100 (clamped from 110)", sig.Confidence)
	}
	if sig.Risk != RiskLow {
		t.Fatalf("risk = %v, want LOW at 60 points", sig.Risk)
	}
}

func TestScoreModerateBuyKeepsMediumRisk(t *testing.T) {
	// 20+15 = 35 points: past the BUY threshold, short of low risk.
	snap := indicator.Snapshot{
		Instrument: "XAUUSD",
		Price:      2400,
		Trend:      indicator.TrendStrongBullish,
		RSI:        28,
		RSIBand:    indicator.RSIOversold,
		MACD:       indicator.MACDNeutral,
		Bollinger:  indicator.BollingerInside,
		ATR:        10,
	}

	sig, ok := Score(snap, scoreTime)
	if !ok {
		t.Fatal("expected a signal")
	}
	if sig.Action != ActionBuy {
		t.Fatalf("action = %v, want BUY", sig.Action)
	}
	if sig.Confidence != 85 {
		t.Fatalf("confidence = %d, want 85", sig.Confidence)
	}
	if sig.Risk != RiskMedium {
		t.Fatalf("risk = %v, want MEDIUM", sig.Risk)
	}
}

func TestScoreHoldZeroesProtectionLevels(t *testing.T) {
	// 20+15-10 = 25 points: below the action threshold.
	snap := indicator.Snapshot{
		Instrument: "USDCHF",
		Price:      0.88,
		Trend:      indicator.TrendStrongBullish,
		RSI:        28,
		RSIBand:    indicator.RSIOversold,
		MACD:       indicator.MACDNeutral,
		Bollinger:  indicator.BollingerUpper,
		ATR:        0.01,
	}

	sig, ok := Score(snap, scoreTime)
	if !ok {
		t.Fatal("expected a signal")
	}
	if sig.Action != ActionHold {
		t.Fatalf("action = %v, want HOLD", sig.Action)
	}
	if sig.Confidence != 75 {
		t.Fatalf("confidence = %d, want 75", sig.Confidence)
	}
	if sig.Risk != RiskMedium {
		t.Fatalf("risk = %v, want MEDIUM", sig.Risk)
	}
	if !sig.StopLoss.IsZero() || !sig.TakeProfit.IsZero() {
		t.Fatalf("HOLD must carry zero brackets, got sl=%v tp=%v", sig.StopLoss, sig.TakeProfit)
	}
	if sig.Actionable() {
		t.Fatal("HOLD must not be actionable")
	}
}

func TestScoreInsufficientTrend(t *testing.T) {
	snap := indicator.Snapshot{
		Instrument: "EURUSD",
		Price:      1.1,
		Trend:      indicator.TrendInsufficient,
	}

	if _, ok := Score(snap, scoreTime); ok {
		t.Fatal("no signal expected without a trend classification")
	}
}

func TestScoreLevelProximityIsStrict(t *testing.T) {
	// Support exactly 0.2% away must not count; just inside must.
	base := indicator.Snapshot{
		Instrument: "EURUSD",
		Price:      100.2,
		Trend:      indicator.TrendSideways,
		RSIBand:    indicator.RSINeutral,
		MACD:       indicator.MACDNeutral,
		Bollinger:  indicator.BollingerInside,
		Levels:     indicator.Levels{Support: 100, HasSupport: true},
	}

	sig, _ := Score(base, scoreTime)
	if sig.Confidence != 50 {
		t.Fatalf("at the boundary: confidence = %d, want 50", sig.Confidence)
	}

	base.Levels.Support = 100.1
	sig, _ = Score(base, scoreTime)
	if sig.Confidence != 65 {
		t.Fatalf("inside the band: confidence = %d, want 65", sig.Confidence)
	}
}

func TestScoreDeterminism(t *testing.T) {
	snap := bullishSnapshot()
	first, _ := Score(snap, scoreTime)
	second, _ := Score(snap, scoreTime)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("scoring is not deterministic: %+v vs %+v", first, second)
	}
}
