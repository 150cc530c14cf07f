package market

import (
	"fmt"
	"time"
)

// Interval identifies a bar duration supported by all data sources.
type Interval string

const (
	IntervalM15 Interval = "M15"
	IntervalH1  Interval = "H1"
	IntervalH4  Interval = "H4"
	IntervalD1  Interval = "D1"
)

// ParseInterval validates an interval name from configuration.
func ParseInterval(name string) (Interval, error) {
	switch Interval(name) {
	case IntervalM15, IntervalH1, IntervalH4, IntervalD1:
		return Interval(name), nil
	}
	return "", fmt.Errorf("unknown interval %q", name)
}

// Duration returns the bar duration for the interval.
func (i Interval) Duration() time.Duration {
	switch i {
	case IntervalM15:
		return 15 * time.Minute
	case IntervalH1:
		return time.Hour
	case IntervalH4:
		return 4 * time.Hour
	case IntervalD1:
		return 24 * time.Hour
	}
	return time.Hour
}

// Bar is one immutable OHLCV observation.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries is an ordered window of bars for one (instrument, interval) pair.
// It is immutable once constructed; downstream stages only derive new values.
type PriceSeries struct {
	Instrument string
	Interval   Interval
	Bars       []Bar
}

// NewPriceSeries validates bar ordering and OHLC consistency.
func NewPriceSeries(instrument string, interval Interval, bars []Bar) (*PriceSeries, error) {
	if instrument == "" {
		return nil, fmt.Errorf("instrument must not be empty")
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s %s: series has no bars", instrument, interval)
	}

	for i, bar := range bars {
		if i > 0 && !bar.Time.After(bars[i-1].Time) {
			return nil, fmt.Errorf("%s %s: timestamps must be strictly ascending at index %d", instrument, interval, i)
		}
		if bar.High < bar.Open || bar.High < bar.Close {
			return nil, fmt.Errorf("%s %s: high below open/close at index %d", instrument, interval, i)
		}
		if bar.Low > bar.Open || bar.Low > bar.Close {
			return nil, fmt.Errorf("%s %s: low above open/close at index %d", instrument, interval, i)
		}
	}

	return &PriceSeries{Instrument: instrument, Interval: interval, Bars: bars}, nil
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int {
	return len(s.Bars)
}

// Last returns the most recent bar.
func (s *PriceSeries) Last() Bar {
	return s.Bars[len(s.Bars)-1]
}

// Closes extracts the closing prices in order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		closes[i] = bar.Close
	}
	return closes
}

// Tail returns the last n bars, or the full series when shorter.
func (s *PriceSeries) Tail(n int) []Bar {
	if n >= len(s.Bars) {
		return s.Bars
	}
	return s.Bars[len(s.Bars)-n:]
}
