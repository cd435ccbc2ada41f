// Package catalog provides the static application registry for NextMac.
//
// The catalog is built once at startup from an embedded YAML manifest and is
// read-only afterwards. It answers three questions for the desktop core:
// which applications exist, which of them are protected core apps that can
// never be uninstalled, and which are singletons limited to one open window.
//
// Components:
//   - Catalog: Indexed, immutable descriptor set
//   - Seeder: Parses manifests (embedded or caller-supplied)
//
// Example Usage:
//
//	cat := catalog.MustDefault()
//	app, ok := cat.Get("finder")
//	if cat.IsSingleton(app.ID) { ... }
package catalog
