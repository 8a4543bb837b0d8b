package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Sheets    SheetsConfig    `mapstructure:"sheets"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Geo       GeoConfig       `mapstructure:"geo"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SheetsConfig holds tabular backend configuration
type SheetsConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	SpreadsheetID    string        `mapstructure:"spreadsheet_id"`
	LedgerID         string        `mapstructure:"ledger_id"`
	LedgerRange      string        `mapstructure:"ledger_range"`
	LedgerToken      string        `mapstructure:"ledger_token"`
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	FetchConcurrency int           `mapstructure:"fetch_concurrency"`
}

// PaymentConfig holds payment gateway configuration
type PaymentConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	PublicKey    string `mapstructure:"public_key"`
	SecretKey    string `mapstructure:"secret_key"`
	BaseCurrency string `mapstructure:"base_currency"`
	RedirectBase string `mapstructure:"redirect_base"`
}

// GeoConfig holds IP geolocation configuration
type GeoConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	BurstSize         int     `mapstructure:"burst_size"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
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

	// .env is optional; variables already set in the environment win
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("STOREFRONT")

	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	globalConfig = &cfg
	return &cfg, nil
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")

	// Sheets
	v.BindEnv("sheets.spreadsheet_id", "GOOGLESHEETS_ID")
	v.BindEnv("sheets.ledger_id", "GOOGLESHEETS_LEDGER_ID")
	v.BindEnv("sheets.ledger_token", "GOOGLESHEETS_LEDGER_TOKEN")

	// Payment
	v.BindEnv("payment.public_key", "FLUTTERWAVE_PUBLIC_KEY")
	v.BindEnv("payment.secret_key", "FLUTTERWAVE_SECRET_KEY")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	// Sheets defaults
	v.SetDefault("sheets.base_url", "https://docs.google.com")
	v.SetDefault("sheets.ledger_range", "payments")
	v.SetDefault("sheets.fetch_timeout", 10*time.Second)
	v.SetDefault("sheets.cache_ttl", 10*time.Minute)
	v.SetDefault("sheets.fetch_concurrency", 8)

	// Payment defaults
	v.SetDefault("payment.base_url", "https://api.flutterwave.com")
	v.SetDefault("payment.base_currency", "USD")
	v.SetDefault("payment.redirect_base", "http://localhost:3000")

	// Geo defaults
	v.SetDefault("geo.base_url", "https://ipapi.co")
	v.SetDefault("geo.timeout", 5*time.Second)

	// Rate limit defaults
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst_size", 20)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4317")
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// SecretKey returns the payment secret from config or environment.
// Secrets are resolved per request path; a missing secret fails the
// request, not startup.
func SecretKey() string {
	if cfg := Get(); cfg != nil && cfg.Payment.SecretKey != "" {
		return cfg.Payment.SecretKey
	}
	return os.Getenv("FLUTTERWAVE_SECRET_KEY")
}
