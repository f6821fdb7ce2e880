package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Plan generation (chat-completions endpoint)
	LLMAPIURL            string
	LLMAPIKey            string
	LLMModel             string
	LLMTimeout           time.Duration
	LLMRequestsPerSecond float64
	GenerationRateLimit  int

	// Payment provider
	PaymentAPIURL        string
	PaymentAccessToken   string
	PaymentWebhookSecret string
	PaymentSuccessURL    string
	PaymentFailureURL    string
	PaymentPollInterval  time.Duration
	PaymentPollTimeout   time.Duration

	// PaymentNotificationURL is the public address of the webhook route
	PaymentNotificationURL string

	// Exports
	S3BucketName string
	AWSRegion    string

	// Logging
	LogLevel  string
	LogFormat string
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// MigrationURL returns the postgres URL form used by the migration tool
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	// A local .env file is optional outside production
	if env != Production {
		_ = godotenv.Load()
	}

	cfg := defaults()

	// Load configuration based on environment
	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		loadDevConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerPort:           "8080",
		ServerHost:           "0.0.0.0",
		CORSOrigins:          []string{"http://localhost:5173", "http://localhost:8080"},
		DBDriver:             "postgres",
		DBHost:               "localhost",
		DBPort:               "5432",
		DBName:               "gut59",
		DBSSLMode:            "disable",
		SQLitePath:           "gut59.db",
		RedisHost:            "localhost",
		RedisPort:            "6379",
		LLMAPIURL:            "https://api.deepseek.com/v1/chat/completions",
		LLMModel:             "deepseek-chat",
		LLMTimeout:           120 * time.Second,
		LLMRequestsPerSecond: 2,
		GenerationRateLimit:  10,
		PaymentAPIURL:        "https://api.mercadopago.com",
		PaymentPollInterval:  5 * time.Second,
		PaymentPollTimeout:   10 * time.Minute,
		S3BucketName:         "gut59-plan-exports",
		AWSRegion:            "us-east-1",
		LogLevel:             "info",
		LogFormat:            "text",
	}
}

// loadCIConfig loads configuration for CI using environment variables only
func loadCIConfig(cfg *Config) {
	applyEnv(cfg)
}

// loadDevConfig loads environment variables, then lets any present Docker secret override them
func loadDevConfig(cfg *Config) {
	applyEnv(cfg)
	applySecrets(cfg)
}

// loadProdConfig loads non-sensitive values from the environment and sensitive values
// from Docker secrets only
func loadProdConfig(cfg *Config) {
	applyEnv(cfg)
	cfg.DBPassword = ""
	cfg.JWTSecret = ""
	cfg.LLMAPIKey = ""
	cfg.PaymentAccessToken = ""
	cfg.PaymentWebhookSecret = ""
	cfg.RedisPassword = ""
	applySecrets(cfg)
}

func applyEnv(cfg *Config) {
	setString(&cfg.ServerPort, os.Getenv("SERVER_PORT"))
	setString(&cfg.ServerHost, os.Getenv("SERVER_HOST"))
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	setString(&cfg.DBDriver, os.Getenv("DB_DRIVER"))
	setString(&cfg.DBHost, os.Getenv("DB_HOST"))
	setString(&cfg.DBPort, os.Getenv("DB_PORT"))
	setString(&cfg.DBUser, os.Getenv("DB_USER"))
	setString(&cfg.DBPassword, os.Getenv("DB_PASSWORD"))
	setString(&cfg.DBName, os.Getenv("DB_NAME"))
	setString(&cfg.DBSSLMode, os.Getenv("DB_SSL_MODE"))
	setString(&cfg.SQLitePath, os.Getenv("SQLITE_PATH"))

	setString(&cfg.RedisHost, os.Getenv("REDIS_HOST"))
	setString(&cfg.RedisPort, os.Getenv("REDIS_PORT"))
	setString(&cfg.RedisPassword, os.Getenv("REDIS_PASSWORD"))
	setString(&cfg.RedisURL, os.Getenv("REDIS_URL"))
	setInt(&cfg.RedisDB, os.Getenv("REDIS_DB"))

	setString(&cfg.JWTSecret, os.Getenv("JWT_SECRET"))

	setString(&cfg.LLMAPIURL, os.Getenv("LLM_API_URL"))
	setString(&cfg.LLMAPIKey, os.Getenv("LLM_API_KEY"))
	setString(&cfg.LLMModel, os.Getenv("LLM_MODEL"))
	setDuration(&cfg.LLMTimeout, os.Getenv("LLM_TIMEOUT"))
	setFloat(&cfg.LLMRequestsPerSecond, os.Getenv("LLM_REQUESTS_PER_SECOND"))
	setInt(&cfg.GenerationRateLimit, os.Getenv("GENERATION_RATE_LIMIT"))

	setString(&cfg.PaymentAPIURL, os.Getenv("PAYMENT_API_URL"))
	setString(&cfg.PaymentAccessToken, os.Getenv("PAYMENT_ACCESS_TOKEN"))
	setString(&cfg.PaymentWebhookSecret, os.Getenv("PAYMENT_WEBHOOK_SECRET"))
	setString(&cfg.PaymentSuccessURL, os.Getenv("PAYMENT_SUCCESS_URL"))
	setString(&cfg.PaymentFailureURL, os.Getenv("PAYMENT_FAILURE_URL"))
	setString(&cfg.PaymentNotificationURL, os.Getenv("PAYMENT_NOTIFICATION_URL"))
	setDuration(&cfg.PaymentPollInterval, os.Getenv("PAYMENT_POLL_INTERVAL"))
	setDuration(&cfg.PaymentPollTimeout, os.Getenv("PAYMENT_POLL_TIMEOUT"))

	setString(&cfg.S3BucketName, os.Getenv("S3_BUCKET_NAME"))
	setString(&cfg.AWSRegion, os.Getenv("AWS_REGION"))

	setString(&cfg.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&cfg.LogFormat, os.Getenv("LOG_FORMAT"))
}

func applySecrets(cfg *Config) {
	setString(&cfg.DBUser, readSecret("db_user"))
	setString(&cfg.DBPassword, readSecret("db_password"))
	setString(&cfg.JWTSecret, readSecret("jwt_secret"))
	setString(&cfg.RedisPassword, readSecret("redis_password"))
	setString(&cfg.RedisURL, readSecret("redis_url"))
	setString(&cfg.LLMAPIKey, readSecret("llm_api_key"))
	setString(&cfg.PaymentAccessToken, readSecret("payment_access_token"))
	setString(&cfg.PaymentWebhookSecret, readSecret("payment_webhook_secret"))
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setInt(dst *int, v string) {
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		*dst = n
	}
}

func setFloat(dst *float64, v string) {
	if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
		*dst = f
	}
}

func setDuration(dst *time.Duration, v string) {
	if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
		*dst = d
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
