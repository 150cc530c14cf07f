package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"fx-signal-alerts/internal/market"
)

// Info describes the running service for the status endpoint.
type Info struct {
	Service     string
	Environment string
	Instruments []string
	Interval    time.Duration
}

// Server exposes status, health, and metrics over HTTP.
type Server struct {
	echo   *echo.Echo
	addr   string
	info   Info
	source market.Source
	logger zerolog.Logger
}

// New constructs the HTTP server and registers routes.
func New(addr string, info Info, source market.Source, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		addr:   addr,
		info:   info,
		source: source,
		logger: logger.With().Str("component", "web").Logger(),
	}

	e.GET("/", s.status)
	e.GET("/health", s.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return s
}

// Handler exposes the route tree as a plain http.Handler.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info().Str("addr", s.addr).Msg("web server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

func (s *Server) status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "running",
		"service":     s.info.Service,
		"environment": s.info.Environment,
		"source":      s.source.Name(),
		"instruments": s.info.Instruments,
		"interval":    s.info.Interval.String(),
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) health(c echo.Context) error {
	pingCtx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	connected := true
	if err := s.source.Ping(pingCtx); err != nil {
		connected = false
		s.logger.Warn().Err(err).Msg("data source ping failed")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":           "healthy",
		"source_connected": connected,
	})
}
