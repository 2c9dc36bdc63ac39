// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVarPrefix is the prefix for environment variable overrides.
// Change this constant when forking quickstay-api for a new project.
const EnvVarPrefix = "QUICKSTAY"

// Environments recognized by the response-mapping policy.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the application configuration. Values load from a YAML
// file and can be overridden per-key by QUICKSTAY_* environment
// variables (QUICKSTAY_MONGO_URI, QUICKSTAY_JWT_SECRET, ...).
type Config struct {
	Env        string `yaml:"env"`
	ListenAddr string `yaml:"listen_addr"`

	// MetricsAddr is the Prometheus listener address. Empty disables
	// the metrics server.
	MetricsAddr string `yaml:"metrics_addr"`

	MongoURI            string `yaml:"mongo_uri"`
	MongoDatabase       string `yaml:"mongo_database"`
	MongoConnectTimeout int    `yaml:"mongo_connect_timeout_seconds"`
	MongoMaxPoolSize    uint64 `yaml:"mongo_max_pool_size"`
	MongoMinPoolSize    uint64 `yaml:"mongo_min_pool_size"`

	JWTSecret           string `yaml:"jwt_secret"`
	StripeWebhookSecret string `yaml:"stripe_webhook_secret"`
	ClerkWebhookSecret  string `yaml:"clerk_webhook_secret"`

	RedisAddr       string `yaml:"redis_addr"`
	RedisPassword   string `yaml:"redis_password"`
	RedisDB         int    `yaml:"redis_db"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`

	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
}

// LoadConfig reads the YAML file at path (optional), applies
// environment overrides, fills defaults, and validates.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	envString(&c.Env, "ENV")
	envString(&c.ListenAddr, "LISTEN_ADDR")
	envString(&c.MetricsAddr, "METRICS_ADDR")
	envString(&c.MongoURI, "MONGO_URI")
	envString(&c.MongoDatabase, "MONGO_DATABASE")
	envInt(&c.MongoConnectTimeout, "MONGO_CONNECT_TIMEOUT_SECONDS")
	envUint64(&c.MongoMaxPoolSize, "MONGO_MAX_POOL_SIZE")
	envUint64(&c.MongoMinPoolSize, "MONGO_MIN_POOL_SIZE")
	envString(&c.JWTSecret, "JWT_SECRET")
	envString(&c.StripeWebhookSecret, "STRIPE_WEBHOOK_SECRET")
	envString(&c.ClerkWebhookSecret, "CLERK_WEBHOOK_SECRET")
	envString(&c.RedisAddr, "REDIS_ADDR")
	envString(&c.RedisPassword, "REDIS_PASSWORD")
	envInt(&c.RedisDB, "REDIS_DB")
	envInt(&c.CacheTTLSeconds, "CACHE_TTL_SECONDS")
	envFloat(&c.RateLimitPerSec, "RATE_LIMIT_PER_SEC")
	envInt(&c.RateLimitBurst, "RATE_LIMIT_BURST")
}

func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = EnvDevelopment
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":3000"
	}
	if c.MongoDatabase == "" {
		c.MongoDatabase = "quickstay"
	}
	if c.MongoConnectTimeout <= 0 {
		c.MongoConnectTimeout = 10
	}
	if c.MongoMaxPoolSize == 0 {
		c.MongoMaxPoolSize = 100
	}
	if c.MongoMinPoolSize == 0 {
		c.MongoMinPoolSize = 10
	}
	if c.CacheTTLSeconds <= 0 {
		c.CacheTTLSeconds = 60
	}
	if c.RateLimitPerSec <= 0 {
		c.RateLimitPerSec = 20
	}
	if c.RateLimitBurst <= 0 {
		c.RateLimitBurst = 40
	}
}

func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("mongo_uri is required (set %s_MONGO_URI or the config file)", EnvVarPrefix)
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("env must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}
	if c.Env == EnvProduction && c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required in production")
	}
	return nil
}

// IsDevelopment reports whether verbose error detail may reach clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// ConnectTimeout returns the database connect timeout as a duration.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.MongoConnectTimeout) * time.Second
}

// CacheTTL returns the hotel list cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(EnvVarPrefix + "_" + key); ok {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v, ok := os.LookupEnv(EnvVarPrefix + "_" + key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envUint64(dst *uint64, key string) {
	if v, ok := os.LookupEnv(EnvVarPrefix + "_" + key); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func envFloat(dst *float64, key string) {
	if v, ok := os.LookupEnv(EnvVarPrefix + "_" + key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
