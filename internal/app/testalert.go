package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fx-signal-alerts/internal/indicator"
	"fx-signal-alerts/internal/market"
	"fx-signal-alerts/internal/service"
	"fx-signal-alerts/internal/signal"
)

// TestAlert fabricates a signal from fresh data for the first configured
// instrument and pushes it through the real chart and delivery path.
func (a *App) TestAlert(ctx context.Context, instrument string) error {
	notifier := a.newNotifier()
	if notifier == nil {
		return errors.New("no delivery channel configured")
	}

	source, err := a.newSource()
	if err != nil {
		return err
	}

	svc, err := a.newService(nil, source, notifier)
	if err != nil {
		return err
	}

	if instrument == "" {
		instrument = a.Config.Market.Instruments[0]
	}

	interval, err := market.ParseInterval(a.Config.Market.PrimaryInterval)
	if err != nil {
		return err
	}

	series, err := source.Fetch(ctx, instrument, interval, a.Config.Market.PrimaryBars)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", instrument, err)
	}

	price := series.Last().Close
	action := signal.ActionBuy
	if price < meanClose(series) {
		action = signal.ActionSell
	}

	entry := decimal.NewFromFloat(price).Round(5)
	sig := signal.Signal{
		Instrument:  instrument,
		Action:      action,
		Entry:       entry,
		StopLoss:    decimal.NewFromFloat(price * 0.995).Round(5),
		TakeProfit:  decimal.NewFromFloat(price * 1.01).Round(5),
		Confidence:  85,
		Risk:        signal.RiskLow,
		Reasons:     []string{"test alert", "delivery channel check"},
		EvaluatedAt: time.Now().UTC(),
	}

	ev := service.Evaluation{
		Instrument: instrument,
		Primary:    series,
		Snapshot:   indicator.Snapshot{Instrument: instrument, Price: price, Levels: indicator.FindLevels(series)},
		Signal:     sig,
		HasSignal:  true,
	}

	if !svc.Deliver(ctx, ev) {
		return errors.New("test alert suppressed by dedup gate")
	}

	a.Logger.Info().Str("instrument", instrument).Str("action", string(action)).Msg("test alert delivered")
	return nil
}

func meanClose(series *market.PriceSeries) float64 {
	var sum float64
	for _, close := range series.Closes() {
		sum += close
	}
	return sum / float64(series.Len())
}
