package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"fx-signal-alerts/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Market    MarketConfig    `mapstructure:"market"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Alerting  AlertingConfig  `mapstructure:"alerting"`
	Chart     ChartConfig     `mapstructure:"chart"`
	Web       WebConfig       `mapstructure:"web"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// MarketConfig selects and parameterises the price data source.
type MarketConfig struct {
	Source          string          `mapstructure:"source"`
	Instruments     []string        `mapstructure:"instruments"`
	PrimaryInterval string          `mapstructure:"primary_interval"`
	TrendInterval   string          `mapstructure:"trend_interval"`
	PrimaryBars     int             `mapstructure:"primary_bars"`
	TrendBars       int             `mapstructure:"trend_bars"`
	RequestTimeout  time.Duration   `mapstructure:"request_timeout"`
	Bridge          BridgeConfig    `mapstructure:"bridge"`
	Provider        ProviderConfig  `mapstructure:"provider"`
	Synthetic       SyntheticConfig `mapstructure:"synthetic"`
}

// BridgeConfig covers the MT5 REST gateway.
type BridgeConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

// ProviderConfig covers a generic HTTP OHLCV provider.
type ProviderConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// SyntheticConfig tunes the random-walk generator used in test mode.
type SyntheticConfig struct {
	Seed       int64   `mapstructure:"seed"`
	StartPrice float64 `mapstructure:"start_price"`
	Volatility float64 `mapstructure:"volatility"`
}

// SchedulerConfig governs evaluation cadence.
type SchedulerConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	AlignToTick  bool          `mapstructure:"align_to_tick"`
	StartupDelay time.Duration `mapstructure:"startup_delay"`
}

// AlertingConfig defines signal thresholds and routing.
type AlertingConfig struct {
	Enabled         bool           `mapstructure:"enabled"`
	AutoThreshold   int            `mapstructure:"auto_threshold"`
	ManualThreshold int            `mapstructure:"manual_threshold"`
	Retention       time.Duration  `mapstructure:"retention"`
	Telegram        TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes the Telegram delivery channel.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// ChartConfig sets chart rendering behaviour.
type ChartConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Bars    int  `mapstructure:"bars"`
	Width   int  `mapstructure:"width"`
	Height  int  `mapstructure:"height"`
}

// WebConfig configures the status/health HTTP server.
type WebConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FXSIGNALS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "fxsignals")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("market.source", "synthetic")
	v.SetDefault("market.instruments", []string{
		"XAUUSD", "XAGUSD", "EURUSD", "GBPUSD", "NZDUSD", "USDCAD", "USDCHF", "AUDUSD",
	})
	v.SetDefault("market.primary_interval", "H1")
	v.SetDefault("market.trend_interval", "H4")
	v.SetDefault("market.primary_bars", 100)
	v.SetDefault("market.trend_bars", 50)
	v.SetDefault("market.request_timeout", "10s")
	v.SetDefault("market.bridge.user_agent", "fxsignals/1.0")
	v.SetDefault("market.synthetic.seed", int64(1))
	v.SetDefault("market.synthetic.start_price", 1.1000)
	v.SetDefault("market.synthetic.volatility", 0.002)

	v.SetDefault("scheduler.interval", "60s")
	v.SetDefault("scheduler.align_to_tick", false)
	v.SetDefault("scheduler.startup_delay", "0s")

	v.SetDefault("alerting.enabled", true)
	v.SetDefault("alerting.auto_threshold", 70)
	v.SetDefault("alerting.manual_threshold", 60)
	v.SetDefault("alerting.retention", "1h")
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("chart.enabled", true)
	v.SetDefault("chart.bars", 30)
	v.SetDefault("chart.width", 1280)
	v.SetDefault("chart.height", 720)

	v.SetDefault("web.enabled", true)
	v.SetDefault("web.addr", ":10000")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if len(c.Market.Instruments) == 0 {
		return fmt.Errorf("market.instruments must not be empty")
	}
	switch c.Market.Source {
	case "bridge", "http", "synthetic":
	default:
		return fmt.Errorf("market.source must be one of bridge, http, synthetic")
	}
	if c.Market.Source == "bridge" && c.Market.Bridge.BaseURL == "" {
		return fmt.Errorf("market.bridge.base_url must be configured")
	}
	if c.Market.Source == "http" && c.Market.Provider.BaseURL == "" {
		return fmt.Errorf("market.provider.base_url must be configured")
	}
	if c.Market.PrimaryBars <= 0 || c.Market.TrendBars <= 0 {
		return fmt.Errorf("market bar counts must be greater than zero")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be greater than zero")
	}
	if c.Alerting.AutoThreshold < 0 || c.Alerting.AutoThreshold > 100 {
		return fmt.Errorf("alerting.auto_threshold must be within [0,100]")
	}
	if c.Alerting.ManualThreshold < 0 || c.Alerting.ManualThreshold > 100 {
		return fmt.Errorf("alerting.manual_threshold must be within [0,100]")
	}
	if c.Alerting.Retention <= 0 {
		return fmt.Errorf("alerting.retention must be greater than zero")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token must be configured")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id must be configured")
		}
	}
	if c.Chart.Enabled && c.Chart.Bars < 2 {
		return fmt.Errorf("chart.bars must be at least 2")
	}
	return nil
}
