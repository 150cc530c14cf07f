package market

import "context"

// Source retrieves OHLCV price series for instruments. Implementations must
// return ascending-timestamp, deduplicated bars or an error; callers still
// re-validate per-indicator minimum lengths themselves.
type Source interface {
	// Fetch returns up to count bars for the instrument at the interval,
	// most recent bar last.
	Fetch(ctx context.Context, instrument string, interval Interval, count int) (*PriceSeries, error)
	// Ping reports whether the upstream feed is reachable.
	Ping(ctx context.Context) error
	// Name identifies the source kind for logs and status endpoints.
	Name() string
}
