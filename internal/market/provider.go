package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const providerCandlesPath = "/v1/candles"

// ProviderOptions parameterise the generic OHLCV HTTP provider.
type ProviderOptions struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Provider fetches bars from a kline-style financial data API. Candles arrive
// as positional arrays [epoch_sec, open, high, low, close, volume].
type Provider struct {
	opts    ProviderOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewProvider constructs an HTTP provider fetcher.
func NewProvider(opts ProviderOptions, logger zerolog.Logger) *Provider {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Provider{
		opts:    opts,
		logger:  logger.With().Str("component", "http_source").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}
}

// Name implements Source.
func (p *Provider) Name() string { return "http" }

// Fetch retrieves the most recent count candles for an instrument.
func (p *Provider) Fetch(ctx context.Context, instrument string, interval Interval, count int) (*PriceSeries, error) {
	if count <= 0 {
		return nil, fmt.Errorf("bar count must be greater than zero")
	}

	query := url.Values{}
	query.Set("symbol", instrument)
	query.Set("interval", string(interval))
	query.Set("limit", strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+providerCandlesPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if p.opts.APIKey != "" {
		req.Header.Set("X-API-Key", p.opts.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider error (%d): %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var candles [][]float64
	if err := json.Unmarshal(payload, &candles); err != nil {
		return nil, fmt.Errorf("decode candles payload: %w", err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%s %s: provider returned no candles", instrument, interval)
	}

	bars := make([]Bar, 0, len(candles))
	for i, candle := range candles {
		if len(candle) < 6 {
			return nil, fmt.Errorf("candle %d has %d fields, want 6", i, len(candle))
		}
		bars = append(bars, Bar{
			Time:   time.Unix(int64(candle[0]), 0).UTC(),
			Open:   candle[1],
			High:   candle[2],
			Low:    candle[3],
			Close:  candle[4],
			Volume: candle[5],
		})
	}

	series, err := NewPriceSeries(instrument, interval, bars)
	if err != nil {
		return nil, fmt.Errorf("provider payload invalid: %w", err)
	}

	p.logger.Debug().Str("instrument", instrument).Str("interval", string(interval)).
		Int("bars", series.Len()).Msg("fetched series")
	return series, nil
}

// Ping probes the provider with a minimal candles request.
func (p *Provider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/ping", nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider ping returned %d", resp.StatusCode)
	}
	return nil
}

var _ Source = (*Provider)(nil)
