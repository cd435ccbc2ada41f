// Package main is the entry point for the desktop session server.
//
// The server owns one desktop session: windows, desktop files, trash,
// installed and pinned apps. Clients read and mutate it over REST and
// follow changes over the /stream WebSocket.
//
// Configuration:
//   - Environment variables (see internal/infrastructure/config)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -storage ./data
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
