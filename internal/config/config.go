// Package config loads hub, bridge, and demo-binary settings from the
// environment, following the same caarlos0/env + godotenv pattern the
// websocket server used for its own configuration.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/odin-labs/multichannel/internal/logging"
)

// Config holds every environment-tunable knob for the demo binary:
// hub sizing, the NATS bridge, rate limiting, and the ambient logging
// and metrics stack.
type Config struct {
	Addr string `env:"MC_ADDR" envDefault:":8080"`

	LogLevel  string `env:"MC_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"MC_LOG_FORMAT" envDefault:"json"`

	NATSURL        string `env:"MC_NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	NATSSubjectFmt string `env:"MC_NATS_SUBJECT_FMT" envDefault:"multichannel.%s"`

	CacheCapacity     int `env:"MC_CACHE_CAPACITY" envDefault:"256"`
	SubscriberInbox   int `env:"MC_SUBSCRIBER_INBOX" envDefault:"128"`
	SubscriberRateRPS int `env:"MC_SUBSCRIBER_RATE_RPS" envDefault:"0"`
	SubscriberBurst   int `env:"MC_SUBSCRIBER_BURST" envDefault:"0"`

	MetricsIntervalSeconds int `env:"MC_METRICS_INTERVAL_SECONDS" envDefault:"10"`

	Environment string `env:"MC_ENVIRONMENT" envDefault:"development"`
}

// Load reads .env (if present, non-fatal when missing) then overlays
// process environment variables, validating the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.CacheCapacity <= 0 {
		return fmt.Errorf("config: MC_CACHE_CAPACITY must be positive, got %d", c.CacheCapacity)
	}
	if c.SubscriberInbox <= 0 {
		return fmt.Errorf("config: MC_SUBSCRIBER_INBOX must be positive, got %d", c.SubscriberInbox)
	}
	if c.SubscriberRateRPS < 0 || c.SubscriberBurst < 0 {
		return fmt.Errorf("config: MC_SUBSCRIBER_RATE_RPS and MC_SUBSCRIBER_BURST must not be negative")
	}
	if c.MetricsIntervalSeconds <= 0 {
		return fmt.Errorf("config: MC_METRICS_INTERVAL_SECONDS must be positive, got %d", c.MetricsIntervalSeconds)
	}
	switch c.LogFormat {
	case "json", "pretty":
	default:
		return fmt.Errorf("config: MC_LOG_FORMAT must be json or pretty, got %q", c.LogFormat)
	}
	switch logging.Level(c.LogLevel) {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return fmt.Errorf("config: MC_LOG_LEVEL must be one of debug/info/warn/error, got %q", c.LogLevel)
	}
	return nil
}

// Print writes a human-readable summary of the loaded configuration
// to stdout.
func (c *Config) Print() {
	fmt.Println("==== multichannel configuration ====")
	fmt.Printf("  Addr:                   %s\n", c.Addr)
	fmt.Printf("  Environment:            %s\n", c.Environment)
	fmt.Printf("  LogLevel/Format:        %s/%s\n", c.LogLevel, c.LogFormat)
	fmt.Printf("  NATSURL:                %s\n", c.NATSURL)
	fmt.Printf("  NATSSubjectFmt:         %s\n", c.NATSSubjectFmt)
	fmt.Printf("  CacheCapacity:          %d\n", c.CacheCapacity)
	fmt.Printf("  SubscriberInbox:        %d\n", c.SubscriberInbox)
	fmt.Printf("  SubscriberRate/Burst:   %d/%d\n", c.SubscriberRateRPS, c.SubscriberBurst)
	fmt.Printf("  MetricsIntervalSeconds: %d\n", c.MetricsIntervalSeconds)
	fmt.Println("=====================================")
}

// Log writes the same summary as structured fields on logger, for
// when a structured sink is already available.
func (c *Config) Log(logger zerolog.Logger) {
	logger.Info().
		Str("addr", c.Addr).
		Str("environment", c.Environment).
		Str("log_level", c.LogLevel).
		Str("log_format", c.LogFormat).
		Str("nats_url", c.NATSURL).
		Int("cache_capacity", c.CacheCapacity).
		Int("subscriber_inbox", c.SubscriberInbox).
		Int("subscriber_rate_rps", c.SubscriberRateRPS).
		Int("subscriber_burst", c.SubscriberBurst).
		Int("metrics_interval_seconds", c.MetricsIntervalSeconds).
		Msg("configuration loaded")
}
