package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

// setenv sets key for the test, or unsets it when value is empty
func setenv(t *testing.T, key, value string) {
	t.Helper()
	t.Setenv(key, value)
	if value == "" {
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())

	// Storage config
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "desktop", cfg.Storage.Key)
	assert.False(t, cfg.Storage.Compress)

	// AI config
	assert.Empty(t, cfg.AI.APIKey)
	assert.Equal(t, "https://picsum.photos", cfg.AI.WallpaperBaseURL)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)

	// Viewport config
	assert.Equal(t, types.Viewport{Width: 1920, Height: 1080, TopBarHeight: 32, DockHeight: 80}, cfg.Viewport.Viewport())

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.False(t, cfg.RateLimit.Global)
}

func TestLoadMatchesDefaultTags(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want.Storage, cfg.Storage)
	assert.Equal(t, want.Viewport, cfg.Viewport)
	assert.Equal(t, want.AI, cfg.AI)
	assert.Equal(t, want.RateLimit, cfg.RateLimit)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":               "9000",
		"HOST":               "127.0.0.1",
		"STORAGE_BACKEND":    "memory",
		"STORAGE_PATH":       "/var/lib/nextmac",
		"STORAGE_COMPRESS":   "true",
		"AI_API_KEY":         "secret",
		"AI_TIMEOUT":         "5s",
		"AI_RETRIES":         "2",
		"VIEWPORT_WIDTH":     "1280",
		"VIEWPORT_HEIGHT":    "800",
		"LOG_LEVEL":          "debug",
		"LOG_DEV":            "true",
		"RATE_LIMIT_RPS":     "500",
		"RATE_LIMIT_BURST":   "1000",
		"RATE_LIMIT_ENABLED": "false",
		"RATE_LIMIT_GLOBAL":  "true",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)

	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/nextmac", cfg.Storage.Path)
	assert.True(t, cfg.Storage.Compress)

	assert.Equal(t, "secret", cfg.AI.APIKey)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 2, cfg.AI.Retries)

	assert.Equal(t, 1280.0, cfg.Viewport.Width)
	assert.Equal(t, 800.0, cfg.Viewport.Height)
	assert.Equal(t, 32.0, cfg.Viewport.TopBarHeight)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.RateLimit.Global)
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("AI_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, Default(), cfg)
}

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		host     string
		wantPort string
		wantHost string
	}{
		{"default values", "", "", "8000", "0.0.0.0"},
		{"custom port", "9000", "", "9000", "0.0.0.0"},
		{"custom host", "", "localhost", "8000", "localhost"},
		{"custom port and host", "3000", "127.0.0.1", "3000", "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setenv(t, "PORT", tt.port)
			setenv(t, "HOST", tt.host)

			cfg := LoadOrDefault()

			assert.Equal(t, tt.wantPort, cfg.Server.Port)
			assert.Equal(t, tt.wantHost, cfg.Server.Host)
		})
	}
}
