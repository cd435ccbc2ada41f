package catalog

import (
	"strings"

	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

// Default window size used when a descriptor does not declare one
var DefaultWindowSize = types.Size{Width: 800, Height: 600}

// Catalog is an immutable registry of application descriptors
type Catalog struct {
	apps      []types.Descriptor
	index     map[string]int
	core      map[string]struct{}
	singleton map[string]struct{}
}

// Get looks up a descriptor by id
func (c *Catalog) Get(id string) (types.Descriptor, bool) {
	i, ok := c.index[id]
	if !ok {
		return types.Descriptor{}, false
	}
	return c.apps[i], true
}

// Has reports whether id names a catalog entry
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// List returns all descriptors in manifest order, optionally filtered by category
func (c *Catalog) List(category *types.Category) []types.Descriptor {
	out := make([]types.Descriptor, 0, len(c.apps))
	for _, app := range c.apps {
		if category == nil || app.Category == *category {
			out = append(out, app)
		}
	}
	return out
}

// Len returns the number of descriptors
func (c *Catalog) Len() int {
	return len(c.apps)
}

// IsCore reports whether id is a protected core app
func (c *Catalog) IsCore(id string) bool {
	_, ok := c.core[id]
	return ok
}

// IsSingleton reports whether id may have at most one open window
func (c *Catalog) IsSingleton(id string) bool {
	_, ok := c.singleton[id]
	return ok
}

// CoreIDs returns the core app ids in manifest order
func (c *Catalog) CoreIDs() []string {
	ids := make([]string, 0, len(c.core))
	for _, app := range c.apps {
		if c.IsCore(app.ID) {
			ids = append(ids, app.ID)
		}
	}
	return ids
}

// DefaultInstalled returns the ids installed on a fresh desktop: everything
// except games, which come from the app store.
func (c *Catalog) DefaultInstalled() []string {
	ids := make([]string, 0, len(c.apps))
	for _, app := range c.apps {
		if app.Category != types.CategoryGame || c.IsCore(app.ID) {
			ids = append(ids, app.ID)
		}
	}
	return ids
}

// DefaultPinned returns the quick-launch strip of a fresh desktop
func (c *Catalog) DefaultPinned() []string {
	pinned := make([]string, 0, len(defaultPinned))
	for _, id := range defaultPinned {
		if c.Has(id) {
			pinned = append(pinned, id)
		}
	}
	return pinned
}

var defaultPinned = []string{"finder", "app-store", "settings", "terminal", "trash"}

// WindowSize returns the default window size for an app
func (c *Catalog) WindowSize(id string) types.Size {
	app, ok := c.Get(id)
	if !ok || app.DefaultSize.Width <= 0 || app.DefaultSize.Height <= 0 {
		return DefaultWindowSize
	}
	return app.DefaultSize
}

// AppForFile picks the app that opens a desktop file. Folders have no handler.
func (c *Catalog) AppForFile(file types.File) (string, bool) {
	if file.IsFolder() {
		return "", false
	}

	appID := "writer"
	switch {
	case strings.HasPrefix(file.Type, "image/"):
		appID = "photos"
	case strings.HasPrefix(file.Type, "video/"):
		appID = "video"
	case strings.HasPrefix(file.Type, "audio/"):
		appID = "music"
	}

	if !c.Has(appID) {
		return "", false
	}
	return appID, true
}
