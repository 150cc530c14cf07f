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

const bridgeRatesPath = "/api/v1/rates"

// BridgeOptions parameterise the MT5 gateway client.
type BridgeOptions struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Bridge fetches bars from a REST gateway fronting an MT5 terminal.
type Bridge struct {
	opts    BridgeOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewBridge constructs an MT5 gateway fetcher.
func NewBridge(opts BridgeOptions, logger zerolog.Logger) *Bridge {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Bridge{
		opts:    opts,
		logger:  logger.With().Str("component", "bridge_source").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}
}

// Name implements Source.
func (b *Bridge) Name() string { return "bridge" }

// Fetch retrieves the most recent count bars for an instrument.
func (b *Bridge) Fetch(ctx context.Context, instrument string, interval Interval, count int) (*PriceSeries, error) {
	if count <= 0 {
		return nil, fmt.Errorf("bar count must be greater than zero")
	}

	query := url.Values{}
	query.Set("symbol", instrument)
	query.Set("timeframe", string(interval))
	query.Set("count", strconv.Itoa(count))

	endpoint := b.baseURL + bridgeRatesPath + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(b.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseBridgeError(resp.StatusCode, payload)
	}

	var rates []bridgeRate
	if err := json.Unmarshal(payload, &rates); err != nil {
		return nil, fmt.Errorf("decode rates payload: %w", err)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("%s %s: gateway returned no bars", instrument, interval)
	}

	bars := make([]Bar, len(rates))
	for i, rate := range rates {
		bars[i] = Bar{
			Time:   time.Unix(rate.Time, 0).UTC(),
			Open:   rate.Open,
			High:   rate.High,
			Low:    rate.Low,
			Close:  rate.Close,
			Volume: rate.TickVolume,
		}
	}

	series, err := NewPriceSeries(instrument, interval, bars)
	if err != nil {
		return nil, fmt.Errorf("gateway payload invalid: %w", err)
	}

	b.logger.Debug().Str("instrument", instrument).Str("interval", string(interval)).
		Int("bars", series.Len()).Msg("fetched series")
	return series, nil
}

// Ping probes the gateway health endpoint.
func (b *Bridge) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway health returned %d", resp.StatusCode)
	}
	return nil
}

type bridgeRate struct {
	Time       int64   `json:"time"`
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	Close      float64 `json:"close"`
	TickVolume float64 `json:"tick_volume"`
}

type bridgeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func parseBridgeError(status int, payload []byte) error {
	var apiErr bridgeError
	if err := json.Unmarshal(payload, &apiErr); err == nil {
		if apiErr.Message != "" {
			return fmt.Errorf("gateway error (%d): %s", status, apiErr.Message)
		}
		if apiErr.Code != "" {
			return fmt.Errorf("gateway error (%d): %s", status, apiErr.Code)
		}
	}
	if len(payload) > 0 {
		return fmt.Errorf("gateway error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("gateway error (%d)", status)
}

var _ Source = (*Bridge)(nil)
