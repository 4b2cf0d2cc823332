// Package config loads runtime settings from the environment and an optional .env file
package config

import (
	"fmt"
	"time"

	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// DriverBadger stores the rates document in a local badger database
	DriverBadger = "badger"
	// DriverMongo reads the rates document from MongoDB
	DriverMongo = "mongo"
)

// Config holds the application settings
type Config struct {
	Port     string `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO" validate:"required"`

	FeedDriver     string `envconfig:"FEED_DRIVER" default:"badger" validate:"oneof=badger mongo"`
	BadgerPath     string `envconfig:"BADGER_PATH" default:"./data"`
	BadgerInMemory bool   `envconfig:"BADGER_IN_MEMORY" default:"false"`
	MongoURI       string `envconfig:"MONGODB_URI" validate:"required_if=FeedDriver mongo"`
	MongoDatabase  string `envconfig:"MONGODB_DATABASE" default:"cambio" validate:"required"`

	RatesCollection string `envconfig:"RATES_COLLECTION" default:"rates" validate:"required"`
	RatesDocID      string `envconfig:"RATES_DOC_ID" default:"TDmXIypgLKKfNggHHSnw" validate:"required"`

	SessionIdleTTL       time.Duration `envconfig:"SESSION_IDLE_TTL" default:"30m" validate:"gt=0"`
	SessionSweepSchedule string        `envconfig:"SESSION_SWEEP_SCHEDULE" default:"@every 1m" validate:"required"`
	AllowedOrigins       []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*" validate:"min=1,dive,required"`
	ShutdownTimeout      time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
}

// Load reads the given .env files (".env" when none), then the environment.
// Missing .env files are not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		logger.Debug("No .env file loaded, using system environment", map[string]interface{}{
			"files": envFiles,
			"error": err.Error(),
		})
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field constraints and cross-field rules
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.FeedDriver == DriverBadger && !c.BadgerInMemory && c.BadgerPath == "" {
		return fmt.Errorf("invalid configuration: BADGER_PATH is required unless BADGER_IN_MEMORY is set")
	}

	return nil
}

// Level returns the parsed log level
func (c *Config) Level() logger.Level {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.InfoLevel
	}
	return level
}

// Addr is the HTTP listen address
func (c *Config) Addr() string {
	return ":" + c.Port
}
