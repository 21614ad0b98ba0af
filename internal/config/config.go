package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/GalacticDynamics/vector/internal/convert"
	"github.com/GalacticDynamics/vector/internal/logging"
	"github.com/GalacticDynamics/vector/internal/vecerr"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	Engine    EngineConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Logger converts the section into a logging.Config.
func (l LogConfig) Logger() logging.Config {
	cfg := logging.DefaultConfig()
	if l.Development {
		cfg = logging.DevelopmentConfig()
	}
	if l.Level != "" {
		cfg.Level = l.Level
	}
	return cfg
}

// EngineConfig holds conversion engine settings.
type EngineConfig struct {
	Workers           int                `envconfig:"COORD_WORKERS" default:"4"`
	ParallelThreshold int                `envconfig:"COORD_PARALLEL_THRESHOLD" default:"1024"`
	LossyPolicy       vecerr.LossyPolicy `envconfig:"COORD_LOSSY_POLICY" default:"warn"`
}

// Options turns the engine section into converter options.
func (e EngineConfig) Options() []convert.Option {
	return []convert.Option{
		convert.WithWorkers(e.Workers),
		convert.WithParallelThreshold(e.ParallelThreshold),
		convert.WithLossyPolicy(e.LossyPolicy),
	}
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Engine.Workers < 1 {
		return nil, fmt.Errorf("failed to load config: COORD_WORKERS must be positive, got %d", cfg.Engine.Workers)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Engine: EngineConfig{
			Workers:           4,
			ParallelThreshold: 1024,
			LossyPolicy:       vecerr.LossyWarn,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
