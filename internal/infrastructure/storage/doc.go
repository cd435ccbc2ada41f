// Package storage provides opaque key/value blob stores for session data.
//
// Backends:
//   - FileStore: one file per key, written atomically via temp file + rename,
//     optionally gzip-compressed
//   - MemoryStore: process-local map, used in tests and ephemeral deployments
//
// Load returns ErrNotFound for a key that was never saved. Compressed and
// plain files are told apart by their header, so toggling compression keeps
// existing data readable.
package storage
