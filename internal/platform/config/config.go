// Package config builds and validates process configuration from the
// environment. A misconfigured deployment must never start silently in a
// degraded mode, so Load is the one place in the codebase where validation
// failure halts the process.
package config

import (
	"os"
	"strings"
	"time"

	"larder/pkg/validation"
)

// Cache TTL for recipe match results. Matches are cheap to recompute, so a
// short window keeps staleness bounded without per-write invalidation of
// every key.
var MatchCacheTTL = 5 * time.Minute

// Config captures process-level configuration. Requiredness of the service
// URL and key is gated on Mode: tests run without real credentials, every
// other mode requires both.
type Config struct {
	Mode       string `json:"mode" validate:"required,oneof=development production test"`
	Addr       string `json:"addr" validate:"required"`
	ServiceURL string `json:"service_url" validate:"required_unless=Mode test,omitempty,url"`
	ServiceKey string `json:"service_key" validate:"required_unless=Mode test"`

	DatabaseURL   string   `json:"database_url"`
	RedisURL      string   `json:"redis_url"`
	KafkaBrokers  []string `json:"kafka_brokers" validate:"dive,required"`
	EventsTopic   string   `json:"events_topic" validate:"required"`
	JWTSigningKey string   `json:"jwt_signing_key" validate:"required"`
}

// FromEnv builds a Config from environment variables so main stays lean.
// It does not validate; call Validate (or use Load) before starting.
func FromEnv() Config {
	cfg := Config{
		Mode:          envOr("LARDER_MODE", "development"),
		Addr:          envOr("LARDER_ADDR", ":8080"),
		ServiceURL:    os.Getenv("LARDER_SERVICE_URL"),
		ServiceKey:    os.Getenv("LARDER_SERVICE_KEY"),
		DatabaseURL:   os.Getenv("LARDER_DATABASE_URL"),
		RedisURL:      os.Getenv("LARDER_REDIS_URL"),
		EventsTopic:   envOr("LARDER_EVENTS_TOPIC", "larder.events"),
		JWTSigningKey: envOr("LARDER_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
	}
	if brokers := os.Getenv("LARDER_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

// Validate checks the configuration, aggregating every violation into one
// error message so a broken deployment reports all of its problems at once.
func (c *Config) Validate() error {
	_, err := validation.MustValidate(c)
	return err
}

// Load is FromEnv plus Validate.
func Load() (Config, error) {
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsTest reports whether the process runs with test-mode requirements.
func (c *Config) IsTest() bool { return c.Mode == "test" }

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
