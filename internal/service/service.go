package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"fx-signal-alerts/internal/alerting"
	"fx-signal-alerts/internal/chart"
	"fx-signal-alerts/internal/config"
	"fx-signal-alerts/internal/gate"
	"fx-signal-alerts/internal/indicator"
	"fx-signal-alerts/internal/market"
	"fx-signal-alerts/internal/metrics"
	"fx-signal-alerts/internal/scheduler"
	"fx-signal-alerts/internal/signal"
)

// Evaluation is the outcome of one instrument analysis.
type Evaluation struct {
	Instrument string
	Primary    *market.PriceSeries
	Snapshot   indicator.Snapshot
	Signal     signal.Signal
	HasSignal  bool
}

// Service orchestrates fetching, scoring, gating, and delivery.
type Service struct {
	scheduler *scheduler.Scheduler
	source    market.Source
	gate      *gate.Gate
	notifier  alerting.Notifier
	renderer  *chart.Renderer
	recorder  *metrics.Recorder
	logger    zerolog.Logger

	instruments     []string
	primaryInterval market.Interval
	trendInterval   market.Interval
	primaryBars     int
	trendBars       int
	fetchTimeout    time.Duration
	autoThreshold   int
	manualThreshold int
	alertsOn        bool
}

// New constructs the analysis service.
func New(cfg *config.Config, sched *scheduler.Scheduler, source market.Source, g *gate.Gate, notifier alerting.Notifier, renderer *chart.Renderer, recorder *metrics.Recorder, logger zerolog.Logger) (*Service, error) {
	primaryInterval, err := market.ParseInterval(cfg.Market.PrimaryInterval)
	if err != nil {
		return nil, fmt.Errorf("market.primary_interval: %w", err)
	}
	trendInterval, err := market.ParseInterval(cfg.Market.TrendInterval)
	if err != nil {
		return nil, fmt.Errorf("market.trend_interval: %w", err)
	}

	return &Service{
		scheduler:       sched,
		source:          source,
		gate:            g,
		notifier:        notifier,
		renderer:        renderer,
		recorder:        recorder,
		logger:          logger.With().Str("component", "service").Logger(),
		instruments:     cfg.Market.Instruments,
		primaryInterval: primaryInterval,
		trendInterval:   trendInterval,
		primaryBars:     cfg.Market.PrimaryBars,
		trendBars:       cfg.Market.TrendBars,
		fetchTimeout:    cfg.Market.RequestTimeout,
		autoThreshold:   cfg.Alerting.AutoThreshold,
		manualThreshold: cfg.Alerting.ManualThreshold,
		alertsOn:        cfg.Alerting.Enabled,
	}, nil
}

// Instruments returns the configured instrument universe.
func (s *Service) Instruments() []string {
	return s.instruments
}

// Run begins the scheduled evaluation loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.Tick)
}

// Tick evaluates every instrument once. Each instrument is isolated: a fetch
// or scoring failure logs and moves on. Cancellation stops between
// instruments, never mid-emission.
func (s *Service) Tick(ctx context.Context, tick time.Time) error {
	s.gate.Purge()

	for _, instrument := range s.instruments {
		if err := ctx.Err(); err != nil {
			return err
		}

		ev, err := s.Analyze(ctx, instrument)
		if err != nil {
			s.logger.Warn().Err(err).Str("instrument", instrument).
				Time("tick", tick).Msg("skipping instrument for this tick")
			s.recorder.RecordError("fetch")
			continue
		}

		s.emit(ctx, ev, s.autoThreshold)
	}

	return nil
}

// Analyze fetches fresh series and scores one instrument, without gating or
// delivery. The trend classification comes from the higher timeframe.
func (s *Service) Analyze(ctx context.Context, instrument string) (Evaluation, error) {
	primary, err := s.fetch(ctx, instrument, s.primaryInterval, s.primaryBars)
	if err != nil {
		return Evaluation{}, fmt.Errorf("fetch %s %s: %w", instrument, s.primaryInterval, err)
	}

	higher, err := s.fetch(ctx, instrument, s.trendInterval, s.trendBars)
	if err != nil {
		return Evaluation{}, fmt.Errorf("fetch %s %s: %w", instrument, s.trendInterval, err)
	}

	snap := indicator.Evaluate(primary, higher)
	sig, ok := signal.Score(snap, time.Now().UTC())

	s.recorder.RecordEvaluation(instrument)
	s.recorder.RecordLastPrice(instrument, snap.Price)
	if ok {
		s.recorder.RecordLastConfidence(instrument, sig.Confidence)
	}

	return Evaluation{
		Instrument: instrument,
		Primary:    primary,
		Snapshot:   snap,
		Signal:     sig,
		HasSignal:  ok,
	}, nil
}

// Scan evaluates the given instruments on demand (operator path) and delivers
// approved signals at the manual threshold. Returns how many were delivered.
func (s *Service) Scan(ctx context.Context, instruments []string) (int, error) {
	if len(instruments) == 0 {
		instruments = s.instruments
	}

	delivered := 0
	for _, instrument := range instruments {
		if err := ctx.Err(); err != nil {
			return delivered, err
		}

		ev, err := s.Analyze(ctx, instrument)
		if err != nil {
			s.logger.Warn().Err(err).Str("instrument", instrument).Msg("scan skipped instrument")
			s.recorder.RecordError("fetch")
			continue
		}

		if s.emit(ctx, ev, s.manualThreshold) {
			delivered++
		}
	}

	return delivered, nil
}

// Deliver pushes an already-scored signal through the gate and the delivery
// channel, rendering a chart when possible. Used by the scheduled loop, the
// operator scan, and the test-alert path.
func (s *Service) Deliver(ctx context.Context, ev Evaluation) bool {
	if !s.gate.Approve(ev.Signal) {
		s.logger.Debug().Str("instrument", ev.Instrument).
			Str("action", string(ev.Signal.Action)).
			Msg("duplicate signal suppressed")
		return false
	}

	s.recorder.RecordSignal(ev.Instrument, string(ev.Signal.Action))

	var img []byte
	if s.renderer != nil && ev.Primary != nil {
		rendered, err := s.renderer.Render(ev.Primary, &ev.Signal, ev.Snapshot.Levels)
		if err != nil {
			// Degrade to text-only delivery.
			s.logger.Warn().Err(err).Str("instrument", ev.Instrument).Msg("chart render failed")
			s.recorder.RecordError("render")
		} else {
			img = rendered
		}
	}

	if s.notifier == nil {
		s.logger.Info().Str("instrument", ev.Instrument).
			Str("action", string(ev.Signal.Action)).
			Int("confidence", ev.Signal.Confidence).
			Msg("signal approved (no delivery channel configured)")
		return true
	}

	if err := s.notifier.Notify(ctx, alerting.Alert{Signal: ev.Signal, Chart: img}); err != nil {
		// The gate keeps the signal marked as sent: retrying a failed
		// delivery every tick would storm the channel.
		s.logger.Error().Err(err).Str("instrument", ev.Instrument).Msg("signal delivery failed")
		s.recorder.RecordError("delivery")
	}

	return true
}

// emit applies the threshold policy and hands qualifying signals to Deliver.
func (s *Service) emit(ctx context.Context, ev Evaluation, threshold int) bool {
	if !s.alertsOn || !ev.HasSignal || !ev.Signal.Actionable() {
		return false
	}
	if ev.Signal.Confidence <= threshold {
		return false
	}
	return s.Deliver(ctx, ev)
}

func (s *Service) fetch(ctx context.Context, instrument string, interval market.Interval, count int) (*market.PriceSeries, error) {
	fetchCtx := ctx
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}
	return s.source.Fetch(fetchCtx, instrument, interval, count)
}
