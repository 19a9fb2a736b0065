package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres" // GORM on Postgres
	DriverPgx      = "pgx"      // pgx pool on Postgres
)

// Config groups the application settings.
type Config struct {
	App       AppConfig
	Store     StoreConfig
	RabbitMQ  RabbitMQConfig
	Auth      AuthConfig
	Telemetry TelemetryConfig
}

// AppConfig general application settings.
type AppConfig struct {
	Port            string
	Env             string
	LogLevel        string
	SeedDemoData    bool
	ShutdownTimeout time.Duration
}

// StoreConfig selects and configures the product store.
type StoreConfig struct {
	Driver string
	DSN    string
}

// RabbitMQConfig product event publishing. An empty URL disables events.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// AuthConfig JWT settings. An empty secret leaves write routes open.
type AuthConfig struct {
	JWTSecret string
}

// TelemetryConfig tracing and metrics settings.
type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
}

// Load reads configuration from environment variables and, when present,
// a config.yaml in the working directory. Environment variables win.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_DEMO_DATA", false)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("STORE_DRIVER", DriverMemory)
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "products")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("OTEL_SERVICE_NAME", "products")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Port:            v.GetString("APP_PORT"),
			Env:             v.GetString("APP_ENV"),
			LogLevel:        v.GetString("LOG_LEVEL"),
			SeedDemoData:    v.GetBool("SEED_DEMO_DATA"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Store: StoreConfig{
			Driver: v.GetString("STORE_DRIVER"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  v.GetString("OTEL_SERVICE_NAME"),
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings can be used together.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres, DriverPgx:
		if c.Store.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for store driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.App.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}
	if c.App.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.RabbitMQ.URL != "" && c.RabbitMQ.Exchange == "" {
		return fmt.Errorf("RABBITMQ_EXCHANGE is required when RABBITMQ_URL is set")
	}
	return nil
}
