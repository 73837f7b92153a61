// Package config defines service configuration and its loading order:
// defaults, then an optional YAML file (UAVWX_CONFIG), then environment
// variables with the UAVWX_ prefix. Flat keys map onto koanf struct tags,
// e.g. UAVWX_KAFKA_SOURCE_TOPIC -> kafka_source_topic.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/flightwx/uav-wx-advisor/internal/domain"
)

const envPrefix = "UAVWX_"

// Config holds all service settings.
type Config struct {
	KafkaBrokers     []string      `koanf:"kafka_brokers"`
	KafkaSourceTopic string        `koanf:"kafka_source_topic"`
	KafkaSinkTopic   string        `koanf:"kafka_sink_topic"`
	KafkaGroupID     string        `koanf:"kafka_group_id"`
	HTTPAddr         string        `koanf:"http_addr"`
	LogLevel         string        `koanf:"log_level"`
	LogFormat        string        `koanf:"log_format"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`

	BatchSize          int           `koanf:"batch_size"`
	BatchFlushInterval time.Duration `koanf:"batch_flush_interval"`

	// Pull-mode forecast provider (feature-flagged).
	ProviderEnabled   bool          `koanf:"provider_enabled"`
	ProviderBaseURL   string        `koanf:"provider_base_url"`
	ProviderTimeout   time.Duration `koanf:"provider_timeout"`
	ProviderCacheSize int           `koanf:"provider_cache_size"`

	// Safety-window threshold overrides. Zero values fall back to the
	// operational defaults inside the engine.
	MaxWindSpeed    float64 `koanf:"max_wind_speed"`
	MinVisibility   float64 `koanf:"min_visibility"`
	MaxIcingRisk    int     `koanf:"max_icing_risk"`
	MaxCape         float64 `koanf:"max_cape"`
	RequireDaylight bool    `koanf:"require_daylight"`
}

func defaults() Config {
	return Config{
		KafkaBrokers:     []string{"localhost:9092"},
		KafkaSourceTopic: "forecast-requests",
		KafkaSinkTopic:   "flight-assessments",
		KafkaGroupID:     "uav-wx-advisor",
		HTTPAddr:         ":8080",
		LogLevel:         "info",
		LogFormat:        "json",
		ShutdownTimeout:  10 * time.Second,

		BatchSize:          50,
		BatchFlushInterval: 5 * time.Second,

		ProviderEnabled:   false,
		ProviderBaseURL:   "https://api.open-meteo.com/v1/forecast",
		ProviderTimeout:   5 * time.Second,
		ProviderCacheSize: 1000,

		RequireDaylight: true,
	}
}

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables, then validating the result.
func Load() (*Config, error) {
	cfg := defaults()

	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.KafkaBrokers) == 0 {
		return errors.New("kafka_brokers is required")
	}
	if c.KafkaSourceTopic == "" {
		return errors.New("kafka_source_topic is required")
	}
	if c.KafkaSinkTopic == "" {
		return errors.New("kafka_sink_topic is required")
	}
	if c.BatchSize <= 0 {
		return errors.New("batch_size must be positive")
	}
	if c.BatchFlushInterval <= 0 {
		return errors.New("batch_flush_interval must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	if c.ProviderEnabled && c.ProviderBaseURL == "" {
		return errors.New("provider_enabled is true but provider_base_url is not set")
	}
	return nil
}

// WindowConfig assembles the engine's safety thresholds from the loaded
// overrides.
func (c *Config) WindowConfig() domain.WindowConfig {
	return domain.WindowConfig{
		MaxWindSpeed:    c.MaxWindSpeed,
		MinVisibility:   c.MinVisibility,
		MaxIcingRisk:    c.MaxIcingRisk,
		MaxCape:         c.MaxCape,
		RequireDaylight: c.RequireDaylight,
	}.Normalize()
}
