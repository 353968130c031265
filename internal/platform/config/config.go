package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string `yaml:"service_name"`
	HTTPPort    string `yaml:"http_port"`

	DatabaseDriver string `yaml:"database_driver"`
	DatabaseDSN    string `yaml:"database_dsn"`
	AutoMigrate    bool   `yaml:"auto_migrate"`

	NATSURL          string        `yaml:"nats_url"`
	BreakerFailures  uint32        `yaml:"breaker_failures"`
	BreakerOpenFor   time.Duration `yaml:"breaker_open_for"`
	OTLPEndpoint     string        `yaml:"otlp_endpoint"`
	WorkerQueueGroup string        `yaml:"worker_queue_group"`

	EnableDigestConsumer     bool `yaml:"enable_digest_consumer"`
	EnableResolutionConsumer bool `yaml:"enable_resolution_consumer"`
}

func defaults() Config {
	return Config{
		ServiceName:              "atelier",
		HTTPPort:                 "8080",
		DatabaseDriver:           "postgres",
		BreakerFailures:          5,
		BreakerOpenFor:           30 * time.Second,
		WorkerQueueGroup:         "observer-experience",
		EnableDigestConsumer:     true,
		EnableResolutionConsumer: true,
	}
}

// Load builds config from defaults, then the optional YAML file named by
// ATELIER_CONFIG_FILE, then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("ATELIER_CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.ServiceName = envString("SERVICE_NAME", cfg.ServiceName)
	cfg.HTTPPort = envString("HTTP_PORT", cfg.HTTPPort)
	cfg.DatabaseDriver = envString("DATABASE_DRIVER", cfg.DatabaseDriver)
	cfg.DatabaseDSN = envString("DATABASE_DSN", envString("POSTGRES_DSN", cfg.DatabaseDSN))
	cfg.AutoMigrate = envBool("AUTO_MIGRATE", cfg.AutoMigrate)
	cfg.NATSURL = envString("NATS_URL", cfg.NATSURL)
	cfg.BreakerFailures = envUint32("BREAKER_FAILURES", cfg.BreakerFailures)
	cfg.BreakerOpenFor = envDuration("BREAKER_OPEN_FOR", cfg.BreakerOpenFor)
	cfg.OTLPEndpoint = envString("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.WorkerQueueGroup = envString("WORKER_QUEUE_GROUP", cfg.WorkerQueueGroup)
	cfg.EnableDigestConsumer = envBool("ENABLE_DIGEST_CONSUMER", cfg.EnableDigestConsumer)
	cfg.EnableResolutionConsumer = envBool("ENABLE_RESOLUTION_CONSUMER", cfg.EnableResolutionConsumer)

	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func validate(cfg Config) error {
	switch strings.ToLower(cfg.DatabaseDriver) {
	case "postgres", "postgresql", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("unsupported database_driver %q", cfg.DatabaseDriver)
	}
	if cfg.BreakerFailures == 0 {
		return fmt.Errorf("breaker_failures must be positive")
	}
	return nil
}

func envString(name string, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return fallback
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envUint32(name string, fallback uint32) uint32 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return uint32(value)
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
