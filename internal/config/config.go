// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTSecret is the HMAC signing secret, either the value itself or
	// "file:<path>" to read it from a file. Must be at least 32 bytes.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTIssuer is the iss claim (e.g. "user-management-api").
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim (e.g. "user-management-clients").
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// JWTAccessTTL is the access token lifetime (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// JWTRefreshTTL is the refresh token lifetime (e.g. "168h" for 7 days).
	JWTRefreshTTL string `mapstructure:"JWT_REFRESH_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// OTLPEndpoint is the OTLP gRPC collector endpoint (e.g. localhost:4317).
	// Empty disables tracing/metrics/log export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`

	// Telemetry (optional). When Kafka brokers are set, the server emits
	// request telemetry to Kafka instead of the OTLP log exporter.
	// TelemetryKafkaBrokers is a comma-separated list of broker addresses.
	TelemetryKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// TelemetryKafkaTopic is the Kafka topic for telemetry events.
	TelemetryKafkaTopic string `mapstructure:"TELEMETRY_KAFKA_TOPIC"`

	// Seed-only: credentials for the initial admin account.
	SeedAdminEmail    string `mapstructure:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `mapstructure:"SEED_ADMIN_PASSWORD"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "user-management-api")
	v.SetDefault("JWT_AUDIENCE", "user-management-clients")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "168h") // 7d
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("TELEMETRY_KAFKA_TOPIC", "user-telemetry")
	v.SetDefault("SEED_ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("SEED_ADMIN_PASSWORD", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// RefreshTTL parses JWTRefreshTTL as a time.Duration. Returns 168h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTRefreshTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// TelemetryKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if Kafka telemetry is enabled (non-empty list) and to create the producer.
func (c *Config) TelemetryKafkaBrokersList() []string {
	if c == nil || c.TelemetryKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.TelemetryKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
