package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every automatically bound environment variable.
const EnvPrefix = "CATALOG_SERVICE"

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Listing   ListingConfig   `mapstructure:"listing"`
	Stat      StatConfig      `mapstructure:"stat"`
	Product   ProductConfig   `mapstructure:"product"`
	Category  CategoryConfig  `mapstructure:"category"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
	// Migrate applies the embedded schema on server start.
	Migrate bool `mapstructure:"migrate"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

type AuthConfig struct {
	InternalAPIKey string `mapstructure:"internal_api_key"`
}

// RateLimitConfig bounds requests per client ip
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	IdleTTL           time.Duration `mapstructure:"idle_ttl"`
}

type ListingConfig struct {
	MaxPageSize     int `mapstructure:"max_page_size"`
	DefaultPageSize int `mapstructure:"default_page_size"`
}

// StatConfig caps the history period of product details.
type StatConfig struct {
	MaxBasicPeriod int `mapstructure:"max_basic_period"`
	MaxPeriod      int `mapstructure:"max_period"`
}

type ProductConfig struct {
	// StrictSave runs the whole product save in one transaction.
	StrictSave bool `mapstructure:"strict_save"`
}

type CategoryConfig struct {
	// Concurrency bounds parallel status cascades.
	Concurrency int64 `mapstructure:"concurrency"`
}

// PaymentConfig holds the payment provider credentials and client limits
type PaymentConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	PublicID          string        `mapstructure:"public_id"`
	Secret            string        `mapstructure:"secret"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	MaxRetries        int           `mapstructure:"max_retries"`
	InitialBackoff    time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff        time.Duration `mapstructure:"max_backoff"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// JobsConfig configures background maintenance
type JobsConfig struct {
	SubscriptionSweepEnabled  bool          `mapstructure:"subscription_sweep_enabled"`
	SubscriptionSweepInterval time.Duration `mapstructure:"subscription_sweep_interval"`
	RequestLogCleanupEnabled  bool          `mapstructure:"request_log_cleanup_enabled"`
	RequestLogCleanupSpec     string        `mapstructure:"request_log_cleanup_spec"`
	RequestLogRetentionDays   int           `mapstructure:"request_log_retention_days"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	Environment string `mapstructure:"environment"`
}

// RequestLogRetention returns the retention window as a duration.
func (j JobsConfig) RequestLogRetention() time.Duration {
	return time.Duration(j.RequestLogRetentionDays) * 24 * time.Hour
}

// Address returns host:port for the HTTP listener.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Validate checks values that have no usable default.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required (DATABASE_URL)")
	}
	if c.Listing.DefaultPageSize > c.Listing.MaxPageSize {
		return fmt.Errorf("listing default_page_size %d exceeds max_page_size %d", c.Listing.DefaultPageSize, c.Listing.MaxPageSize)
	}
	if c.Stat.MaxBasicPeriod > c.Stat.MaxPeriod {
		return fmt.Errorf("stat max_basic_period %d exceeds max_period %d", c.Stat.MaxBasicPeriod, c.Stat.MaxPeriod)
	}
	return nil
}

var globalConfig *Config

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := loadEnvFile(); err != nil {
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// An explicit path that does not exist is still an error.
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	globalConfig = &cfg
	return &cfg, nil
}

// loadEnvFile loads the first .env file found next to the binary or in ./config
func loadEnvFile() error {
	for _, path := range []string{".", "./config"} {
		envFile := path + "/.env"
		if _, err := os.Stat(envFile); err == nil {
			return loadDotEnvFile(envFile)
		}
	}
	return fmt.Errorf("no .env file found")
}

// loadDotEnvFile reads KEY=VALUE lines and sets the variables that are not
// already set in the environment.
func loadDotEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		value = strings.Trim(strings.TrimSpace(value), "\"'")
		if _, set := os.LookupEnv(key); !set {
			os.Setenv(key, value)
		}
	}
	return scanner.Err()
}

// bindEnvVars binds the unprefixed variables used by the deployment
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("auth.internal_api_key", "INTERNAL_API_KEY")
	v.BindEnv("payment.base_url", "PAYMENT_API_URL")
	v.BindEnv("payment.public_id", "PAYMENT_PUBLIC_ID")
	v.BindEnv("payment.secret", "PAYMENT_SECRET")
	v.BindEnv("telemetry.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.max_conn_lifetime", 1*time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)
	v.SetDefault("database.migrate", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 20)
	v.SetDefault("rate_limit.burst", 40)
	v.SetDefault("rate_limit.idle_ttl", 10*time.Minute)

	v.SetDefault("listing.max_page_size", 10)
	v.SetDefault("listing.default_page_size", 10)

	v.SetDefault("stat.max_basic_period", 95)
	v.SetDefault("stat.max_period", 190)

	v.SetDefault("product.strict_save", false)
	v.SetDefault("category.concurrency", 8)

	v.SetDefault("payment.base_url", "https://api.cloudpayments.ru")
	v.SetDefault("payment.requests_per_second", 2)
	v.SetDefault("payment.max_retries", 3)
	v.SetDefault("payment.initial_backoff", 100*time.Millisecond)
	v.SetDefault("payment.max_backoff", 30*time.Second)
	v.SetDefault("payment.timeout", 30*time.Second)

	v.SetDefault("jobs.subscription_sweep_enabled", true)
	v.SetDefault("jobs.subscription_sweep_interval", time.Hour)
	v.SetDefault("jobs.request_log_cleanup_enabled", true)
	v.SetDefault("jobs.request_log_cleanup_spec", "30 3 * * *")
	v.SetDefault("jobs.request_log_retention_days", 90)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "opentelemetry-collector:4317")
	v.SetDefault("telemetry.environment", "production")
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// GetDatabaseURL returns the database URL from config or environment
func GetDatabaseURL() string {
	if cfg := Get(); cfg != nil && cfg.Database.URL != "" {
		return cfg.Database.URL
	}
	return os.Getenv("DATABASE_URL")
}
