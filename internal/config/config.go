package config

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"goprofile/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server Server
	Cache  Cache
	Limits Limits
	Engine Engine
}

// Server holds web server settings
type Server struct {
	Port        string
	Environment string // development or production
}

// Cache holds result cache settings
type Cache struct {
	Dir string
	TTL time.Duration
}

// Limits holds request back-pressure settings
type Limits struct {
	MaxBodyBytes   int64
	RateLimit      int           // requests per window
	RateWindow     time.Duration // sliding window for the rate limit
	RequestTimeout time.Duration
}

// Engine holds profiling engine settings
type Engine struct {
	MaxWorkers        int
	ChunkSize         int
	PoolTimeout       time.Duration
	ParallelThreshold int // column count above which per-column work is pooled
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: Server{
			Port:        getEnvOrDefault("PORT", "5000"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
		Cache: Cache{
			Dir: getEnvOrDefault("CACHE_DIR", ".cache/profiles"),
			TTL: getEnvDurationOrDefault("CACHE_TTL", 24*time.Hour),
		},
		Limits: Limits{
			MaxBodyBytes:   int64(getEnvIntOrDefault("MAX_BODY_BYTES", 50*1024*1024)),
			RateLimit:      getEnvIntOrDefault("RATE_LIMIT", 50),
			RateWindow:     getEnvDurationOrDefault("RATE_WINDOW", 15*time.Minute),
			RequestTimeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		},
		Engine: Engine{
			MaxWorkers:        getEnvIntOrDefault("MAX_WORKERS", defaultWorkers()),
			ChunkSize:         getEnvIntOrDefault("CHUNK_SIZE", 8),
			PoolTimeout:       getEnvDurationOrDefault("POOL_TIMEOUT", 30*time.Second),
			ParallelThreshold: getEnvIntOrDefault("PARALLEL_THRESHOLD", 24),
		},
	}

	// Development gets a looser rate limit unless one was set explicitly
	if cfg.Server.Environment == "development" && os.Getenv("RATE_LIMIT") == "" {
		cfg.Limits.RateLimit = 1000
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// IsProduction reports whether the server runs with production defaults
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func defaultWorkers() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if cfg.Cache.TTL <= 0 {
		return errors.ConfigInvalid("CACHE_TTL must be positive")
	}
	if cfg.Limits.MaxBodyBytes <= 0 {
		return errors.ConfigInvalid("MAX_BODY_BYTES must be positive")
	}
	if cfg.Engine.MaxWorkers < 1 {
		return errors.ConfigInvalid("MAX_WORKERS must be at least 1")
	}
	if cfg.Engine.ChunkSize < 1 {
		return errors.ConfigInvalid("CHUNK_SIZE must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
