package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	AI        AIConfig
	Viewport  ViewportConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// Addr returns host:port
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	Backend  string `envconfig:"STORAGE_BACKEND" default:"file"`
	Path     string `envconfig:"STORAGE_PATH" default:"./data"`
	Key      string `envconfig:"STORAGE_KEY" default:"desktop"`
	Compress bool   `envconfig:"STORAGE_COMPRESS" default:"false"`
}

// AIConfig holds model and wallpaper service configuration.
type AIConfig struct {
	BaseURL          string        `envconfig:"AI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
	APIKey           string        `envconfig:"AI_API_KEY"`
	ChatModel        string        `envconfig:"AI_CHAT_MODEL" default:"gemini-2.5-flash"`
	ImageModel       string        `envconfig:"AI_IMAGE_MODEL" default:"gemini-2.5-flash-image-preview"`
	WallpaperBaseURL string        `envconfig:"WALLPAPER_BASE_URL" default:"https://picsum.photos"`
	Timeout          time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
	Retries          int           `envconfig:"AI_RETRIES" default:"0"`
}

// ViewportConfig holds the screen geometry used for window tiling.
type ViewportConfig struct {
	Width        float64 `envconfig:"VIEWPORT_WIDTH" default:"1920"`
	Height       float64 `envconfig:"VIEWPORT_HEIGHT" default:"1080"`
	TopBarHeight float64 `envconfig:"TOPBAR_HEIGHT" default:"32"`
	DockHeight   float64 `envconfig:"DOCK_HEIGHT" default:"80"`
}

// Viewport converts to the shared type
func (v ViewportConfig) Viewport() types.Viewport {
	return types.Viewport{
		Width:        v.Width,
		Height:       v.Height,
		TopBarHeight: v.TopBarHeight,
		DockHeight:   v.DockHeight,
	}
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Global            bool `envconfig:"RATE_LIMIT_GLOBAL" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    "./data",
			Key:     "desktop",
		},
		AI: AIConfig{
			BaseURL:          "https://generativelanguage.googleapis.com/v1beta",
			ChatModel:        "gemini-2.5-flash",
			ImageModel:       "gemini-2.5-flash-image-preview",
			WallpaperBaseURL: "https://picsum.photos",
			Timeout:          60 * time.Second,
		},
		Viewport: ViewportConfig{
			Width:        1920,
			Height:       1080,
			TopBarHeight: 32,
			DockHeight:   80,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
