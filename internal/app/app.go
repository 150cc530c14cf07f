package app

import (
	"context"
	"errors"
	"fmt"
	osignal "os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"fx-signal-alerts/internal/alerting"
	"fx-signal-alerts/internal/chart"
	"fx-signal-alerts/internal/config"
	"fx-signal-alerts/internal/gate"
	"fx-signal-alerts/internal/market"
	"fx-signal-alerts/internal/metrics"
	"fx-signal-alerts/internal/scheduler"
	"fx-signal-alerts/internal/service"
	"fx-signal-alerts/internal/web"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newSource() (market.Source, error) {
	mkt := a.Config.Market
	switch mkt.Source {
	case "bridge":
		return market.NewBridge(market.BridgeOptions{
			BaseURL:   mkt.Bridge.BaseURL,
			UserAgent: mkt.Bridge.UserAgent,
			Timeout:   mkt.RequestTimeout,
		}, a.Logger), nil
	case "http":
		return market.NewProvider(market.ProviderOptions{
			BaseURL: mkt.Provider.BaseURL,
			APIKey:  mkt.Provider.APIKey,
			Timeout: mkt.RequestTimeout,
		}, a.Logger), nil
	case "synthetic":
		return market.NewSynthetic(market.SyntheticOptions{
			Seed:       mkt.Synthetic.Seed,
			StartPrice: mkt.Synthetic.StartPrice,
			Volatility: mkt.Synthetic.Volatility,
		}, a.Logger), nil
	}
	return nil, fmt.Errorf("unknown market source %q", mkt.Source)
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

func (a *App) newRenderer() *chart.Renderer {
	if !a.Config.Chart.Enabled {
		return nil
	}
	return chart.NewRenderer(chart.Options{
		Bars:   a.Config.Chart.Bars,
		Width:  a.Config.Chart.Width,
		Height: a.Config.Chart.Height,
	})
}

func (a *App) newService(sched *scheduler.Scheduler, source market.Source, notifier alerting.Notifier) (*service.Service, error) {
	g := gate.New(gate.Options{Retention: a.Config.Alerting.Retention})
	recorder := metrics.New()
	return service.New(a.Config, sched, source, g, notifier, a.newRenderer(), recorder, a.Logger)
}

// Run executes the long-running analysis loop plus the status web server.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := osignal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	source, err := a.newSource()
	if err != nil {
		return err
	}

	notifier := a.newNotifier()
	if notifier == nil {
		a.Logger.Warn().Msg("telegram not configured; signals will only be logged")
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToTick:  a.Config.Scheduler.AlignToTick,
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	svc, err := a.newService(sched, source, notifier)
	if err != nil {
		return err
	}

	webErr := make(chan error, 1)
	if a.Config.Web.Enabled {
		server := web.New(a.Config.Web.Addr, web.Info{
			Service:     a.Config.App.Name,
			Environment: a.Config.App.Environment,
			Instruments: a.Config.Market.Instruments,
			Interval:    a.Config.Scheduler.Interval,
		}, source, a.Logger)

		go func() {
			webErr <- server.Run(ctx)
		}()
	}

	a.Logger.Info().Str("source", source.Name()).
		Int("instruments", len(a.Config.Market.Instruments)).
		Dur("interval", a.Config.Scheduler.Interval).
		Msg("starting analysis service")

	runErr := svc.Run(ctx)
	cancel()

	if a.Config.Web.Enabled {
		if err := <-webErr; err != nil {
			a.Logger.Error().Err(err).Msg("web server terminated with error")
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		a.Logger.Error().Err(runErr).Msg("service terminated with error")
		return runErr
	}

	a.Logger.Info().Msg("analysis service stopped")
	return nil
}
