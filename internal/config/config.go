package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	// Server settings
	Port string

	// Storage settings
	StoreBackend string // file | sqlite | memory
	TasksFile    string
	SQLitePath   string

	// Rate limiting; RPS <= 0 disables it
	RateLimitRPS   float64
	RateLimitBurst int

	// Tracing settings
	OTLPEndpoint string
	ServiceName  string
}

// Load returns configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		StoreBackend:   getEnv("STORE_BACKEND", "file"),
		TasksFile:      getEnv("TASKS_FILE", "tasks.json"),
		SQLitePath:     getEnv("SQLITE_PATH", "data/tasks.db"),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:    getEnv("OTEL_SERVICE_NAME", "tasks-api"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
