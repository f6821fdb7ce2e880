package config

import (
	"os"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// ParseEnvironment maps a raw name to an Environment, defaulting to development
func ParseEnvironment(name string) Environment {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "production", "prod":
		return Production
	case "test":
		return Test
	case "ci":
		return CI
	default:
		return Development
	}
}

// GetEnvironment determines the current environment.
// CI=true wins, then ENV, then APP_ENV.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	if env := os.Getenv("ENV"); env != "" {
		return ParseEnvironment(env)
	}
	return ParseEnvironment(os.Getenv("APP_ENV"))
}

// IsProduction returns true if the current environment is production
func IsProduction() bool {
	return GetEnvironment() == Production
}

// IsTest returns true if the current environment is test or CI
func IsTest() bool {
	env := GetEnvironment()
	return env == Test || env == CI
}
