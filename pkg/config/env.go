package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultEveAPIBaseURL is the public endpoint of the EVE Online XML API
	DefaultEveAPIBaseURL = "https://api.eveonline.com"
	// DefaultUserAgent identifies this service to the EVE API operators
	DefaultUserAgent = "go-evelink/1.0.0 contact@example.com"
)

// GetEnv returns the value of an environment variable or a default value if not set
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetBoolEnv returns the boolean value of an environment variable or a default value if not set
func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// TelemetryEnabled reports whether tracing and log export are switched on
func TelemetryEnabled() bool {
	return GetBoolEnv("ENABLE_TELEMETRY", false)
}

// GetIntEnv returns the integer value of an environment variable or a default value if not set
func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetDurationEnv returns a time.Duration parsed from an environment variable (e.g. "30s")
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetEveAPIBaseURL returns the XML API base URL without a trailing slash
func GetEveAPIBaseURL() string {
	return strings.TrimRight(GetEnv("EVE_API_BASE_URL", DefaultEveAPIBaseURL), "/")
}

// GetUserAgent returns the User-Agent sent with every EVE API request
func GetUserAgent() string {
	return GetEnv("EVE_API_USER_AGENT", DefaultUserAgent)
}

// GetAPIPrefix returns the route prefix for the HTTP API, normalised to "/prefix" or ""
func GetAPIPrefix() string {
	prefix := strings.Trim(GetEnv("API_PREFIX", ""), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}
