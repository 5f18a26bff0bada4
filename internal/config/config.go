package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gateway  GatewayConfig
	Secrets  SecretsConfig
	Logger   LoggerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int
	Host        string
	MetricsPort int

	// Rate limiting for the public payment endpoints
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// GatewayConfig holds the hosted payment gateway configuration. The working
// key and access code are secret material and are resolved through the
// secrets backend; only their lookup paths live here.
type GatewayConfig struct {
	MerchantID       string
	GatewayURL       string // hosted payment page the browser posts the form to
	RedirectURL      string // gateway callback endpoint, carries no secret
	CancelURL        string // gateway cancel endpoint
	SuccessPageURL   string // terminal page for successful payments
	FailurePageURL   string // terminal page for failed payments
	CancelledPageURL string // terminal page for cancelled payments
	DefaultCurrency  string

	WorkingKeyPath string // secrets backend path for the encryption working key
	AccessCodePath string // secrets backend path for the merchant access code
}

// SecretsConfig selects the secret management backend
type SecretsConfig struct {
	Backend string // env, aws, vault

	AWSRegion   string
	AWSProfile  string
	AWSEndpoint string

	VaultAddress   string
	VaultToken     string
	VaultNamespace string
	VaultMountPath string
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			Host:               getEnv("SERVER_HOST", "0.0.0.0"),
			MetricsPort:        getEnvAsInt("METRICS_PORT", 9090),
			RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10),
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 5)),
		},
		Gateway: GatewayConfig{
			MerchantID:       getEnv("GATEWAY_MERCHANT_ID", ""),
			GatewayURL:       getEnv("GATEWAY_URL", ""),
			RedirectURL:      getEnv("GATEWAY_REDIRECT_URL", ""),
			CancelURL:        getEnv("GATEWAY_CANCEL_URL", ""),
			SuccessPageURL:   getEnv("PAYMENT_SUCCESS_PAGE_URL", ""),
			FailurePageURL:   getEnv("PAYMENT_FAILURE_PAGE_URL", ""),
			CancelledPageURL: getEnv("PAYMENT_CANCELLED_PAGE_URL", ""),
			DefaultCurrency:  getEnv("GATEWAY_DEFAULT_CURRENCY", "AED"),
			WorkingKeyPath:   getEnv("GATEWAY_WORKING_KEY_PATH", "GATEWAY_WORKING_KEY"),
			AccessCodePath:   getEnv("GATEWAY_ACCESS_CODE_PATH", "GATEWAY_ACCESS_CODE"),
		},
		Secrets: SecretsConfig{
			Backend:        getEnv("SECRETS_BACKEND", "env"),
			AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
			AWSProfile:     getEnv("AWS_PROFILE", ""),
			AWSEndpoint:    getEnv("AWS_SECRETS_ENDPOINT", ""),
			VaultAddress:   getEnv("VAULT_ADDR", ""),
			VaultToken:     getEnv("VAULT_TOKEN", ""),
			VaultNamespace: getEnv("VAULT_NAMESPACE", ""),
			VaultMountPath: getEnv("VAULT_MOUNT_PATH", "secret"),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	// Validate required fields
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Gateway.MerchantID == "" {
		return nil, fmt.Errorf("GATEWAY_MERCHANT_ID is required")
	}
	if cfg.Gateway.GatewayURL == "" {
		return nil, fmt.Errorf("GATEWAY_URL is required")
	}
	if cfg.Gateway.RedirectURL == "" {
		return nil, fmt.Errorf("GATEWAY_REDIRECT_URL is required")
	}
	if cfg.Gateway.CancelURL == "" {
		return nil, fmt.Errorf("GATEWAY_CANCEL_URL is required")
	}

	return cfg, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
