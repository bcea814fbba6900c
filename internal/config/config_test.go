package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://dwd.api.bund.dev", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.OpsAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DWD_BASE_URL", "http://localhost:8081")
	t.Setenv("DWD_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("OPS_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8081", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.OpsAddr)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("DWD_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DWD_TIMEOUT")
}

func TestLoad_NegativeTimeout(t *testing.T) {
	t.Setenv("DWD_TIMEOUT", "-1s")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidBaseURL(t *testing.T) {
	for _, bad := range []string{"not a url", "ftp://example.com", "https://"} {
		t.Run(bad, func(t *testing.T) {
			t.Setenv("DWD_BASE_URL", bad)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "DWD_BASE_URL")
		})
	}
}
