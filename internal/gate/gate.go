// Package gate suppresses duplicate signal emissions. A signal for one
// (instrument, action) pair is approved at most once per clock hour, with
// approvals expiring after a retention window.
package gate

import (
	"fmt"
	"sync"
	"time"

	"fx-signal-alerts/internal/signal"
)

// Options tune gate behaviour.
type Options struct {
	// Retention is how long an approval suppresses repeats. Defaults to 1h.
	Retention time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Gate is the only mutable shared state in the signal pipeline. Check-then-
// insert runs under a single mutex so concurrent evaluators cannot double-emit.
type Gate struct {
	mu        sync.Mutex
	approved  map[string]time.Time
	retention time.Duration
	now       func() time.Time
}

// New constructs a gate.
func New(opts Options) *Gate {
	retention := opts.Retention
	if retention <= 0 {
		retention = time.Hour
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Gate{
		approved:  make(map[string]time.Time),
		retention: retention,
		now:       now,
	}
}

// Approve records the signal's dedup key and reports whether it may be
// emitted. A key already recorded within the retention window is rejected.
func (g *Gate) Approve(sig signal.Signal) bool {
	now := g.now()
	key := dedupKey(sig.Instrument, sig.Action, now)

	g.mu.Lock()
	defer g.mu.Unlock()

	if stamped, ok := g.approved[key]; ok && now.Sub(stamped) < g.retention {
		return false
	}
	g.approved[key] = now
	return true
}

// Purge drops approvals older than the retention window. Expiry is lazy and
// bulk; callers invoke it once per scheduling tick.
func (g *Gate) Purge() {
	cutoff := g.now().Add(-g.retention)

	g.mu.Lock()
	defer g.mu.Unlock()

	for key, stamped := range g.approved {
		if stamped.Before(cutoff) {
			delete(g.approved, key)
		}
	}
}

// Size returns the number of live approval records.
func (g *Gate) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.approved)
}

// dedupKey buckets by instrument, action, and UTC hour-of-day label, so one
// instrument cannot alert twice for the same action within a clock hour.
func dedupKey(instrument string, action signal.Action, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s", instrument, action, now.UTC().Format("15"))
}
