package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig
	App      AppConfig
	Store    StoreConfig
	Recovery RecoveryConfig
	Codec    CodecConfig
	Notify   NotifyConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

// StoreConfig selects and tunes the durable mirror.
type StoreConfig struct {
	Type         string        `envconfig:"STORE_TYPE" default:"memory"` // memory, sqlite, or redis
	QuotaBytes   int64         `envconfig:"STORE_QUOTA_BYTES" default:"5242880"`
	SQLitePath   string        `envconfig:"STORE_SQLITE_PATH" default:"./data/catalog.db"`
	PollInterval time.Duration `envconfig:"STORE_POLL_INTERVAL" default:"2s"`
	KeyPrefix    string        `envconfig:"STORE_KEY_PREFIX" default:"antique-catalog:store"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// RecoveryConfig holds the quota recovery thresholds.
type RecoveryConfig struct {
	Retention            time.Duration `envconfig:"RECOVERY_RETENTION" default:"720h"`
	MaxItems             int           `envconfig:"RECOVERY_MAX_ITEMS" default:"100"`
	MaxDescriptionLength int           `envconfig:"RECOVERY_MAX_DESCRIPTION" default:"500"`
	ImageMaxWidth        int           `envconfig:"RECOVERY_IMAGE_MAX_WIDTH" default:"800"`
	ImageMaxHeight       int           `envconfig:"RECOVERY_IMAGE_MAX_HEIGHT" default:"800"`
}

// CodecConfig holds image re-encoding settings.
type CodecConfig struct {
	Quality         int `envconfig:"IMAGE_QUALITY" default:"70"`
	IngestMaxWidth  int `envconfig:"INGEST_IMAGE_MAX_WIDTH" default:"1200"`
	IngestMaxHeight int `envconfig:"INGEST_IMAGE_MAX_HEIGHT" default:"1200"`
}

// NotifyConfig holds native push settings. No brokers disables push.
type NotifyConfig struct {
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:""`
	KafkaTopic   string   `envconfig:"KAFKA_NOTIFY_TOPIC" default:"catalog.notifications"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (s *StoreConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", s.RedisHost, s.RedisPort)
}

// PushEnabled reports whether at least one Kafka broker is configured.
func (n *NotifyConfig) PushEnabled() bool {
	for _, b := range n.KafkaBrokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	switch cfg.Store.Type {
	case "memory", "sqlite", "redis":
	default:
		return nil, fmt.Errorf("failed to load config: unknown STORE_TYPE %q", cfg.Store.Type)
	}

	return &cfg, nil
}
