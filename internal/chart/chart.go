// Package chart renders recent price action with signal overlays to PNG.
// Rendering is best effort: callers fall back to text-only delivery when it
// fails.
package chart

import (
	"bytes"
	"errors"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"fx-signal-alerts/internal/indicator"
	"fx-signal-alerts/internal/market"
	"fx-signal-alerts/internal/signal"
)

// Options size the rendered image.
type Options struct {
	Bars   int
	Width  int
	Height int
}

// Renderer draws signal charts.
type Renderer struct {
	opts Options
}

// NewRenderer constructs a renderer with sane fallbacks.
func NewRenderer(opts Options) *Renderer {
	if opts.Bars < 2 {
		opts.Bars = 30
	}
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	return &Renderer{opts: opts}
}

// Render plots the closing prices of the most recent bars and overlays the
// signal's entry, stop-loss, take-profit, and nearby support/resistance.
func (r *Renderer) Render(series *market.PriceSeries, sig *signal.Signal, levels indicator.Levels) ([]byte, error) {
	if series == nil || series.Len() < 2 {
		return nil, errors.New("series too short to render")
	}

	bars := series.Tail(r.opts.Bars)
	x := make([]time.Time, len(bars))
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		x[i] = bar.Time
		closes[i] = bar.Close
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.5f")
	}

	plotted := []chart.Series{
		chart.TimeSeries{
			Name:    series.Instrument + " close",
			XValues: x,
			YValues: closes,
		},
	}

	if sig != nil && sig.Actionable() {
		plotted = append(plotted, overlay("Entry", x, sig.Entry.InexactFloat64(), chart.ColorBlack))
		if !sig.StopLoss.IsZero() {
			plotted = append(plotted, overlay("SL", x, sig.StopLoss.InexactFloat64(), chart.ColorRed))
		}
		if !sig.TakeProfit.IsZero() {
			plotted = append(plotted, overlay("TP", x, sig.TakeProfit.InexactFloat64(), chart.ColorGreen))
		}
	}
	if levels.HasSupport {
		plotted = append(plotted, overlay("Support", x, levels.Support, chart.ColorBlue))
	}
	if levels.HasResistance {
		plotted = append(plotted, overlay("Resistance", x, levels.Resistance, chart.ColorOrange))
	}

	graph := chart.Chart{
		Width:  r.opts.Width,
		Height: r.opts.Height,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Price",
			ValueFormatter: priceFormatter,
		},
		Series: plotted,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// overlay draws a horizontal reference line across the plotted window.
func overlay(name string, x []time.Time, y float64, color drawing.Color) chart.Series {
	ends := []time.Time{x[0], x[len(x)-1]}
	return chart.TimeSeries{
		Name:    name,
		XValues: ends,
		YValues: []float64{y, y},
		Style: chart.Style{
			StrokeColor:     color,
			StrokeDashArray: []float64{5.0, 5.0},
		},
	}
}
