package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	BaseURL        string        // DWD API base URL
	RequestTimeout time.Duration // bound on each upstream GET

	LogLevel  string
	LogFormat string

	// OpsAddr is the listen address for the health/metrics HTTP server.
	// Empty disables it; the MCP stdio transport does not need it.
	OpsAddr         string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	requestTimeout, err := parseDuration("DWD_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseURL:         envOrDefault("DWD_BASE_URL", "https://dwd.api.bund.dev"),
		RequestTimeout:  requestTimeout,
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		OpsAddr:         os.Getenv("OPS_ADDR"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("DWD_BASE_URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid DWD_BASE_URL: %q", cfg.BaseURL)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
