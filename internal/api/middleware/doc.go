// Package middleware provides the gin middleware shared by the HTTP API:
// CORS, per-IP and global rate limiting, and bearer token checks.
package middleware
