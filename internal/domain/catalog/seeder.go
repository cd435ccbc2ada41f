package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

//go:embed apps.yaml
var defaultManifest []byte

// MaxApps bounds the manifest size; lookups assume a small fixed set
const MaxApps = 30

type manifest struct {
	Apps []manifestEntry `yaml:"apps"`
}

type manifestEntry struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Icon        string         `yaml:"icon"`
	Category    types.Category `yaml:"category"`
	DefaultSize types.Size     `yaml:"defaultSize"`
	EntryPoint  string         `yaml:"entryPoint"`
	Core        bool           `yaml:"core"`
	Singleton   bool           `yaml:"singleton"`
}

// Parse builds a catalog from a YAML manifest
func Parse(data []byte) (*Catalog, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse catalog manifest: %w", err)
	}

	if len(m.Apps) == 0 {
		return nil, fmt.Errorf("catalog manifest has no apps")
	}
	if len(m.Apps) > MaxApps {
		return nil, fmt.Errorf("catalog manifest has %d apps, maximum is %d", len(m.Apps), MaxApps)
	}

	c := &Catalog{
		apps:      make([]types.Descriptor, 0, len(m.Apps)),
		index:     make(map[string]int, len(m.Apps)),
		core:      make(map[string]struct{}),
		singleton: make(map[string]struct{}),
	}

	for i, entry := range m.Apps {
		if entry.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has empty id", i)
		}
		if _, dup := c.index[entry.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", entry.ID)
		}
		if entry.Name == "" {
			entry.Name = entry.ID
		}

		c.index[entry.ID] = len(c.apps)
		c.apps = append(c.apps, types.Descriptor{
			ID:          entry.ID,
			Name:        entry.Name,
			Icon:        entry.Icon,
			Category:    entry.Category,
			DefaultSize: entry.DefaultSize,
			EntryPoint:  entry.EntryPoint,
		})
		if entry.Core {
			c.core[entry.ID] = struct{}{}
		}
		if entry.Singleton {
			c.singleton[entry.ID] = struct{}{}
		}
	}

	return c, nil
}

var (
	defaultCatalog    *Catalog
	defaultCatalogErr error
	defaultOnce       sync.Once
)

// Default returns the catalog built from the embedded manifest
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = Parse(defaultManifest)
	})
	return defaultCatalog, defaultCatalogErr
}

// MustDefault is like Default but panics on a broken embedded manifest
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}
