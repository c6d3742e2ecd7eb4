package config

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config is the whole application configuration, populated from environment variables
// and, when RESURS_SECRET_SOURCE=gcp, from Secret Manager.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Resurs   ResursConfig
	Callback CallbackConfig
	Queue    QueueConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

// =====================================================
// RESURS BANK CONFIGURATION
// =====================================================

// APICredentials is one username/secret pair as stored in configuration.
type APICredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

func (c APICredentials) IsSet() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type ResursConfig struct {
	Environment string // test, prod
	Flavour     string // mapi, ecom
	StoreID     string

	Test       APICredentials
	Production APICredentials
	// Legacy is the optional secondary credential set used for the
	// ECom API when a reference cannot be found with the primary set.
	Legacy APICredentials

	MerchantAPIURL string // empty = derived from Environment
	ECommerceURL   string
	TokenURL       string
	Timeout        time.Duration

	StatusOverrides   string // e.g. "AUTO_DEBITED=processing,ERROR=failed"
	PaymentMethodsTTL time.Duration

	// SnapshotKey is the hex-encoded 32 byte key for per-order credential snapshots.
	SnapshotKey string

	SecretSource string // env, gcp
	GCPProject   string
	SecretName   string
}

// Active returns the credentials for the configured environment.
func (r ResursConfig) Active() APICredentials {
	if r.Environment == "prod" {
		return r.Production
	}
	return r.Test
}

type CallbackConfig struct {
	// BaseURL is the public URL the provider calls back on.
	BaseURL      string
	RotationCron string
}

type QueueConfig struct {
	Name         string
	MaxRetry     int
	TaskTimeout  time.Duration
	Concurrency  int
	HealthListen string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Resurs Bank Gateway"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "resursbank"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			Issuer: getEnv("JWT_ISSUER", "resursbank-gateway"),
		},
		Resurs: ResursConfig{
			Environment: strings.ToLower(getEnv("RESURS_ENVIRONMENT", "test")),
			Flavour:     strings.ToLower(getEnv("RESURS_API_FLAVOUR", "mapi")),
			StoreID:     getEnv("RESURS_STORE_ID", ""),
			Test: APICredentials{
				ClientID:     getEnv("RESURS_TEST_CLIENT_ID", ""),
				ClientSecret: getEnv("RESURS_TEST_CLIENT_SECRET", ""),
			},
			Production: APICredentials{
				ClientID:     getEnv("RESURS_PROD_CLIENT_ID", ""),
				ClientSecret: getEnv("RESURS_PROD_CLIENT_SECRET", ""),
			},
			Legacy: APICredentials{
				ClientID:     getEnv("RESURS_LEGACY_USERNAME", ""),
				ClientSecret: getEnv("RESURS_LEGACY_PASSWORD", ""),
			},
			MerchantAPIURL:    getEnv("RESURS_MAPI_URL", ""),
			ECommerceURL:      getEnv("RESURS_ECOM_URL", ""),
			TokenURL:          getEnv("RESURS_TOKEN_URL", ""),
			Timeout:           getEnvDuration("RESURS_TIMEOUT", 10*time.Second),
			StatusOverrides:   getEnv("RESURS_STATUS_OVERRIDES", ""),
			PaymentMethodsTTL: getEnvDuration("RESURS_PAYMENT_METHODS_TTL", time.Hour),
			SnapshotKey:       getEnv("RESURS_SNAPSHOT_KEY", ""),
			SecretSource:      strings.ToLower(getEnv("RESURS_SECRET_SOURCE", "env")),
			GCPProject:        getEnv("GCP_PROJECT", ""),
			SecretName:        getEnv("RESURS_SECRET_NAME", "resurs-credentials"),
		},
		Callback: CallbackConfig{
			BaseURL:      getEnv("CALLBACK_BASE_URL", "http://localhost:8080/api/v1/callbacks/resurs"),
			RotationCron: getEnv("CALLBACK_ROTATION_CRON", "0 3 * * *"),
		},
		Queue: QueueConfig{
			Name:         getEnv("QUEUE_NAME", "callbacks"),
			MaxRetry:     getEnvInt("QUEUE_MAX_RETRY", 3),
			TaskTimeout:  getEnvDuration("QUEUE_TASK_TIMEOUT", 30*time.Second),
			Concurrency:  getEnvInt("QUEUE_CONCURRENCY", 10),
			HealthListen: getEnv("WORKER_HEALTH_ADDR", ":9999"),
		},
	}

	if cfg.Resurs.SecretSource == "gcp" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := cfg.loadFromSecretManager(ctx); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration is usable.
// Missing API credentials are NOT a validation error: the service starts and
// reports "not configured" until they are provided.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(&c.Resurs,
		validation.Field(&c.Resurs.Environment, validation.Required, validation.In("test", "prod")),
		validation.Field(&c.Resurs.Flavour, validation.Required, validation.In("mapi", "ecom")),
		validation.Field(&c.Resurs.SecretSource, validation.In("env", "gcp")),
		validation.Field(&c.Resurs.Timeout, validation.Min(time.Second)),
		validation.Field(&c.Resurs.SnapshotKey, validation.By(validHexKey)),
	)
	if err != nil {
		return err
	}

	if err := validation.Validate(c.Callback.BaseURL, validation.Required, is.URL); err != nil {
		return fmt.Errorf("CALLBACK_BASE_URL: %w", err)
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Resurs.SnapshotKey == "" {
			return fmt.Errorf("RESURS_SNAPSHOT_KEY must be set in production")
		}
	}

	return nil
}

func validHexKey(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("must be hex encoded")
	}
	if len(raw) != 32 {
		return fmt.Errorf("must decode to 32 bytes, got %d", len(raw))
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
