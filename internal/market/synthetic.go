package market

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// SyntheticOptions tune the generated walk.
type SyntheticOptions struct {
	Seed       int64
	StartPrice float64
	Volatility float64
	Now        func() time.Time
}

// Synthetic generates deterministic random-walk series without any upstream
// feed. Used for demos and as the test-mode data source.
type Synthetic struct {
	opts   SyntheticOptions
	logger zerolog.Logger
	now    func() time.Time
}

// NewSynthetic constructs a synthetic data source.
func NewSynthetic(opts SyntheticOptions, logger zerolog.Logger) *Synthetic {
	if opts.StartPrice <= 0 {
		opts.StartPrice = 1.1
	}
	if opts.Volatility <= 0 {
		opts.Volatility = 0.002
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Synthetic{
		opts:   opts,
		logger: logger.With().Str("component", "synthetic_source").Logger(),
		now:    now,
	}
}

// Name implements Source.
func (s *Synthetic) Name() string { return "synthetic" }

// Fetch generates count bars ending at the current interval boundary. The walk
// is seeded per instrument so repeated calls within one boundary are identical.
func (s *Synthetic) Fetch(_ context.Context, instrument string, interval Interval, count int) (*PriceSeries, error) {
	if count <= 0 {
		count = 1
	}

	rng := rand.New(rand.NewSource(s.opts.Seed ^ instrumentSeed(instrument)))
	step := interval.Duration()
	end := s.now().UTC().Truncate(step)
	start := end.Add(-time.Duration(count-1) * step)

	price := s.opts.StartPrice * (0.8 + 0.4*rng.Float64())
	bars := make([]Bar, count)
	for i := 0; i < count; i++ {
		drift := price * s.opts.Volatility * (rng.Float64()*2 - 1)
		open := price
		close := price + drift
		high := math.Max(open, close) * (1 + s.opts.Volatility*rng.Float64()/2)
		low := math.Min(open, close) * (1 - s.opts.Volatility*rng.Float64()/2)

		bars[i] = Bar{
			Time:   start.Add(time.Duration(i) * step),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: 100 + 900*rng.Float64(),
		}
		price = close
	}

	return NewPriceSeries(instrument, interval, bars)
}

// Ping always succeeds; there is no upstream.
func (s *Synthetic) Ping(context.Context) error { return nil }

func instrumentSeed(instrument string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(instrument))
	return int64(h.Sum64())
}

var _ Source = (*Synthetic)(nil)
