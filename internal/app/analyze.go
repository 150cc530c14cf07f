package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"fx-signal-alerts/internal/indicator"
)

// Analyze evaluates instruments on demand and prints a summary table. No
// gating or delivery happens on this path.
func (a *App) Analyze(ctx context.Context, instruments []string) error {
	source, err := a.newSource()
	if err != nil {
		return err
	}

	svc, err := a.newService(nil, source, nil)
	if err != nil {
		return err
	}

	if len(instruments) == 0 {
		instruments = svc.Instruments()
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Instrument\tPrice\tTrend\tRSI\tMACD\tAction\tConfidence\tRisk")

	for _, instrument := range instruments {
		ev, err := svc.Analyze(ctx, instrument)
		if err != nil {
			a.Logger.Warn().Err(err).Str("instrument", instrument).Msg("analysis failed")
			fmt.Fprintf(writer, "%s\tunavailable\t\t\t\t\t\t\n", instrument)
			continue
		}

		action, confidence, risk := "-", "-", "-"
		if ev.HasSignal {
			action = string(ev.Signal.Action)
			confidence = fmt.Sprintf("%d%%", ev.Signal.Confidence)
			risk = string(ev.Signal.Risk)
		}

		rsi := "-"
		if ev.Snapshot.RSIBand != indicator.RSIUnavailable {
			rsi = fmt.Sprintf("%.1f", ev.Snapshot.RSI)
		}

		fmt.Fprintf(
			writer,
			"%s\t%.5f\t%s\t%s\t%s\t%s\t%s\t%s\n",
			instrument,
			ev.Snapshot.Price,
			ev.Snapshot.Trend,
			rsi,
			ev.Snapshot.MACD,
			action,
			confidence,
			risk,
		)
	}

	return writer.Flush()
}

// Scan evaluates instruments on demand and delivers any approved signals at
// the manual confidence threshold.
func (a *App) Scan(ctx context.Context, instruments []string) error {
	source, err := a.newSource()
	if err != nil {
		return err
	}

	svc, err := a.newService(nil, source, a.newNotifier())
	if err != nil {
		return err
	}

	delivered, err := svc.Scan(ctx, instruments)
	if err != nil {
		return err
	}

	if delivered == 0 {
		fmt.Fprintln(os.Stdout, "no signals found (confidence too low)")
	} else {
		fmt.Fprintf(os.Stdout, "delivered %d signal(s)\n", delivered)
	}
	return nil
}
