// Package config builds runtime configuration from environment
// variables so main stays lean.
package config

import (
	"os"
	"time"
)

// Redis captures connection settings for the summary cache. An empty
// URL disables caching entirely.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Config is the full runtime configuration.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// DatabaseURL selects the postgres stores; when empty the server
	// runs on in-memory stores, which suits local development.
	DatabaseURL string
	Redis       Redis
	// CacheTTL bounds summary cache staleness.
	CacheTTL time.Duration
	// ShutdownTimeout bounds graceful drain on termination.
	ShutdownTimeout time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	addr := os.Getenv("MIZAN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	cacheTTL := 5 * time.Minute
	if raw := os.Getenv("MIZAN_CACHE_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cacheTTL = d
		}
	}

	return Config{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		CacheTTL:        cacheTTL,
		ShutdownTimeout: 10 * time.Second,
	}
}
