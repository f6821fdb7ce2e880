package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every failed check
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	lines := make([]string, len(e))
	for i, v := range e {
		lines[i] = v.Error()
	}
	return strings.Join(lines, "\n")
}

// ConfigRequirements defines which sensitive values an environment must provide
type ConfigRequirements struct {
	RequireLLMKey        bool
	RequirePaymentToken  bool
	RequireWebhookSecret bool
	RequireDBPassword    bool
}

var requirements = map[Environment]ConfigRequirements{
	Development: {},
	Test:        {},
	CI:          {RequireDBPassword: true},
	Production: {
		RequireLLMKey:        true,
		RequirePaymentToken:  true,
		RequireWebhookSecret: true,
		RequireDBPassword:    true,
	},
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	reqs := requirements[GetEnvironment()]

	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}
	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBName == "" {
			add("DB_HOST/DB_PORT/DB_NAME", "are required for the postgres driver")
		}
		if cfg.DBUser == "" {
			add("DB_USER", "is required for the postgres driver")
		}
		if reqs.RequireDBPassword && cfg.DBPassword == "" {
			add("DB_PASSWORD", "is required in this environment")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required for the sqlite driver")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.LLMRequestsPerSecond <= 0 {
		add("LLM_REQUESTS_PER_SECOND", "must be positive")
	}
	if cfg.PaymentPollInterval <= 0 || cfg.PaymentPollTimeout < cfg.PaymentPollInterval {
		add("PAYMENT_POLL_INTERVAL", "must be positive and not exceed PAYMENT_POLL_TIMEOUT")
	}
	if reqs.RequireLLMKey && cfg.LLMAPIKey == "" {
		add("LLM_API_KEY", "is required in this environment")
	}
	if reqs.RequirePaymentToken && cfg.PaymentAccessToken == "" {
		add("PAYMENT_ACCESS_TOKEN", "is required in this environment")
	}
	if reqs.RequireWebhookSecret && cfg.PaymentWebhookSecret == "" {
		add("PAYMENT_WEBHOOK_SECRET", "is required in this environment")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
