// Package config loads server configuration from the environment.
package config

import (
	"os"
	"strconv"
)

// Config holds the server settings.
//
// Environment variables:
//
//	SPLIT_ADDR:        listen address (default ":8080")
//	SPLIT_CURRENCY:    ISO display currency (default "GBP")
//	SPLIT_AUTO_CREATE: create people on first reference (default "true")
//	LOG_LEVEL:         debug, info, warn, error (read by pkg/logging)
type Config struct {
	Addr       string
	Currency   string
	AutoCreate bool
}

// Load reads the configuration, falling back to defaults for unset or
// unparseable values.
func Load() Config {
	return Config{
		Addr:       getEnv("SPLIT_ADDR", ":8080"),
		Currency:   getEnv("SPLIT_CURRENCY", "GBP"),
		AutoCreate: getEnvBool("SPLIT_AUTO_CREATE", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}
