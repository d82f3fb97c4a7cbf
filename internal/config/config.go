package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/newthinker/tickerscope/internal/collector"
	"github.com/newthinker/tickerscope/internal/core"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Collector CollectorConfig `mapstructure:"collector"`
	News      NewsConfig      `mapstructure:"news"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Backtest  BacktestConfig  `mapstructure:"backtest"`
	Export    ExportConfig    `mapstructure:"export"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	APIKey          string        `mapstructure:"api_key"` // guards write routes when set
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CollectorConfig selects and tunes the market data provider.
type CollectorConfig struct {
	Provider  string        `mapstructure:"provider"`
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// NewsConfig holds the RSS news lookup settings.
type NewsConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	HL      string        `mapstructure:"hl"`
	GL      string        `mapstructure:"gl"`
	CEID    string        `mapstructure:"ceid"`
	Limit   int           `mapstructure:"limit"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DashboardConfig holds chart defaults.
type DashboardConfig struct {
	Symbol              string  `mapstructure:"symbol"`
	Period              string  `mapstructure:"period"`
	MAWindows           []int   `mapstructure:"ma_windows"`
	MAChoices           []int   `mapstructure:"ma_choices"`
	ShowBollinger       bool    `mapstructure:"show_bollinger"`
	ShowVolumeProfile   bool    `mapstructure:"show_volume_profile"`
	ShowGaps            bool    `mapstructure:"show_gaps"`
	BollingerPeriod     int     `mapstructure:"bollinger_period"`
	BollingerMultiplier float64 `mapstructure:"bollinger_multiplier"`
	VolumeBins          int     `mapstructure:"volume_bins"`
}

type BacktestConfig struct {
	InitialCapital float64 `mapstructure:"initial_capital"`
	ShortWindow    int     `mapstructure:"short_window"`
	LongWindow     int     `mapstructure:"long_window"`
}

// ExportConfig selects where CSV snapshots are written.
type ExportConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file on top of Defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.SetEnvPrefix("TICKERSCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, or returns Defaults when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Defaults(), nil
	}
	return Load(path)
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Collector: CollectorConfig{
			Provider: "yahoo",
			Timeout:  10 * time.Second,
		},
		News: NewsConfig{
			Enabled: true,
			HL:      "zh-TW",
			GL:      "TW",
			CEID:    "TW:zh-Hant",
			Limit:   6,
			Timeout: 10 * time.Second,
		},
		Dashboard: DashboardConfig{
			Symbol:              "2330.TW",
			Period:              "1y",
			MAWindows:           []int{5, 20},
			MAChoices:           []int{5, 10, 20, 60, 120, 240},
			ShowBollinger:       false,
			ShowVolumeProfile:   true,
			ShowGaps:            true,
			BollingerPeriod:     20,
			BollingerMultiplier: 2,
			VolumeBins:          50,
		},
		Backtest: BacktestConfig{
			InitialCapital: 100000,
			ShortWindow:    5,
			LongWindow:     20,
		},
		Export: ExportConfig{
			Type: "localfs",
			Path: "./exports",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.Collector.Provider == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("collector.provider is required"))
	}
	if c.Collector.Timeout < 0 || c.News.Timeout < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("timeouts cannot be negative"))
	}
	if c.News.Limit < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("news.limit cannot be negative, got %d", c.News.Limit))
	}

	// Dashboard validation
	d := c.Dashboard
	if _, err := collector.ParsePeriod(d.Period); err != nil {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("dashboard.period: %w", err))
	}
	for _, w := range append(append([]int(nil), d.MAWindows...), d.MAChoices...) {
		if w <= 0 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("moving average windows must be positive, got %d", w))
		}
	}
	if d.BollingerPeriod < 2 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("bollinger_period must be at least 2, got %d", d.BollingerPeriod))
	}
	if d.BollingerMultiplier <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("bollinger_multiplier must be positive, got %f", d.BollingerMultiplier))
	}
	if d.VolumeBins <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("volume_bins must be positive, got %d", d.VolumeBins))
	}

	// Backtest validation
	if c.Backtest.ShortWindow <= 0 || c.Backtest.LongWindow <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("backtest windows must be positive, got %d/%d", c.Backtest.ShortWindow, c.Backtest.LongWindow))
	}
	if c.Backtest.InitialCapital < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial_capital cannot be negative, got %f", c.Backtest.InitialCapital))
	}

	// Export validation
	switch c.Export.Type {
	case "localfs":
		if c.Export.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("export.path required when type is localfs"))
		}
	case "s3":
		if c.Export.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("export.s3.bucket required when type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("export.type must be localfs or s3, got %q", c.Export.Type))
	}

	return nil
}
