// Package http exposes the desktop session over a gin JSON API: state
// reads, action dispatch, file import, login, AI features and the terminal.
//
// Errors are returned as {"error": "..."}. Bad input maps to 400, failed
// authentication to 401 and upstream AI failures to 502.
package http
