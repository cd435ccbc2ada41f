// Package persistence mirrors the durable part of the desktop state to a
// blob store and rebuilds it at startup.
//
// Persisted fields: password, desktopFiles, trashedFiles, installedApps and
// pinnedApps. Windows, focus and the z-index counter live only in memory.
//
// Loading is lenient:
//   - missing or malformed fields keep their initial values
//   - file records that are not objects with string id, name, type and
//     content are discarded
//   - unknown app ids are dropped and core apps are always installed
//   - an id present in both file sets stays on the desktop
//
// Saving happens after every applied action that touched a persisted field.
// Failures are logged and counted; the in-memory session carries on.
package persistence
