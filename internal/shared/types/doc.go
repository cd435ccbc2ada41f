// Package types provides shared data structures for the NextMac backend.
//
// This package defines the records exchanged between the desktop core,
// the persistence layer and the HTTP/WebSocket surface, so that every
// component agrees on one wire shape.
//
// Core Types:
//   - Descriptor: Catalog entry for an installable application
//   - Window: Open application surface with geometry and lifecycle
//   - File: Simulated filesystem entry (desktop or trash)
//
// Geometry:
//   - Position, Size: Window placement in viewport pixels
//   - Viewport: Screen area used by tiling
//
// Example Usage:
//
//	w := types.Window{
//	    ID:    "finder-1712345678901",
//	    AppID: "finder",
//	    Title: "Finder",
//	    State: types.WindowNormal,
//	}
package types
