// Package config provides 12-factor configuration management for the NextMac backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Storage: Where and how the desktop blob is persisted
//   - AI: Model endpoint, key and wallpaper service
//   - Viewport: Screen geometry used by window tiling
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s\n", cfg.Server.Addr())
//
// Environment Variables:
//   - PORT, HOST
//   - STORAGE_BACKEND, STORAGE_PATH, STORAGE_KEY, STORAGE_COMPRESS
//   - AI_BASE_URL, AI_API_KEY, AI_CHAT_MODEL, AI_IMAGE_MODEL, WALLPAPER_BASE_URL, AI_TIMEOUT, AI_RETRIES
//   - VIEWPORT_WIDTH, VIEWPORT_HEIGHT, TOPBAR_HEIGHT, DOCK_HEIGHT
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
