package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all environment backed configuration for meteobot-server.
type Config struct {
	// HTTP Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	PprofPort   int    `env:"PPROF_PORT" envDefault:"6060"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Completion provider
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model         string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	Temperature   float32       `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
	MaxTokens     int           `env:"OPENAI_MAX_TOKENS" envDefault:"1000"`
	OfflineMode   bool          `env:"OFFLINE_MODE" envDefault:"false"`
	HistoryLimit  int           `env:"HISTORY_LIMIT" envDefault:"10"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	// Weather provider
	OpenMeteoBaseURL string `env:"OPEN_METEO_BASE_URL" envDefault:"https://api.open-meteo.com"`
	GeocodingBaseURL string `env:"GEOCODING_BASE_URL" envDefault:"https://geocoding-api.open-meteo.com"`

	// Observability / Logging
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string `env:"SERVICE_NAME" envDefault:"meteobot-server"`
	ServiceNamespace string `env:"SERVICE_NAMESPACE" envDefault:"meteobot"`
	Environment      string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`

	// Internal
	EnvReloadedAt time.Time
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.OpenAIBaseURL); err != nil {
		return nil, fmt.Errorf("invalid OPENAI_BASE_URL: %w", err)
	}
	if _, err := url.ParseRequestURI(cfg.OpenMeteoBaseURL); err != nil {
		return nil, fmt.Errorf("invalid OPEN_METEO_BASE_URL: %w", err)
	}
	if _, err := url.ParseRequestURI(cfg.GeocodingBaseURL); err != nil {
		return nil, fmt.Errorf("invalid GEOCODING_BASE_URL: %w", err)
	}
	if cfg.HistoryLimit <= 0 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be positive, got %d", cfg.HistoryLimit)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.EnvReloadedAt = time.Now()

	return cfg, nil
}

var Version = "dev"

func IsDev() bool {
	return strings.HasPrefix(Version, "dev")
}
