package config

import (
	"fmt"
	"os"
	"strconv"
)

// Store backends the repository layer supports.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	Store StoreConfig
	Redis RedisConfig
	Log   LogConfig
}

// StoreConfig selects the encounter repository backend
type StoreConfig struct {
	Backend string // "memory" or "redis"
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string // zap level name: debug, info, warn, error
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Store: StoreConfig{
			Backend: getEnvOrDefault("STORE_BACKEND", StoreMemory),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
	}

	if cfg.Store.Backend != StoreMemory && cfg.Store.Backend != StoreRedis {
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q",
			StoreMemory, StoreRedis, cfg.Store.Backend)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
