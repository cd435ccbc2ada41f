package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

func TestDefaultManifest(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.LessOrEqual(t, c.Len(), MaxApps)

	finder, ok := c.Get("finder")
	require.True(t, ok)
	assert.Equal(t, "Finder", finder.Name)
	assert.Equal(t, types.Size{Width: 640, Height: 480}, finder.DefaultSize)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCoreAndSingletonSets(t *testing.T) {
	c := MustDefault()

	assert.ElementsMatch(t,
		[]string{"finder", "settings", "task-manager", "terminal", "trash", "app-store"},
		c.CoreIDs(),
	)

	for _, id := range []string{"finder", "trash", "app-store", "settings"} {
		assert.True(t, c.IsSingleton(id), id)
	}
	assert.False(t, c.IsSingleton("terminal"))
	assert.False(t, c.IsSingleton("browser"))
}

func TestDefaultInstalledExcludesGames(t *testing.T) {
	c := MustDefault()
	installed := c.DefaultInstalled()

	assert.Contains(t, installed, "browser")
	assert.NotContains(t, installed, "game-dice")
	for _, id := range c.CoreIDs() {
		assert.Contains(t, installed, id)
	}
}

func TestDefaultPinned(t *testing.T) {
	c := MustDefault()
	assert.Equal(t, []string{"finder", "app-store", "settings", "terminal", "trash"}, c.DefaultPinned())
}

func TestListByCategory(t *testing.T) {
	c := MustDefault()

	games := types.CategoryGame
	for _, app := range c.List(&games) {
		assert.Equal(t, types.CategoryGame, app.Category)
	}
	assert.Len(t, c.List(nil), c.Len())
}

func TestWindowSize(t *testing.T) {
	c, err := Parse([]byte(`
apps:
  - id: sized
    name: Sized
    defaultSize: { width: 300, height: 200 }
  - id: unsized
    name: Unsized
`))
	require.NoError(t, err)

	assert.Equal(t, types.Size{Width: 300, Height: 200}, c.WindowSize("sized"))
	assert.Equal(t, DefaultWindowSize, c.WindowSize("unsized"))
	assert.Equal(t, DefaultWindowSize, c.WindowSize("unknown"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"empty", "apps: []"},
		{"missing id", "apps:\n  - name: Nameless\n"},
		{"duplicate id", "apps:\n  - id: a\n  - id: a\n"},
		{"not yaml", "apps: [unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.manifest))
			assert.Error(t, err)
		})
	}
}

func TestAppForFile(t *testing.T) {
	c := MustDefault()

	tests := []struct {
		name  string
		file  types.File
		want  string
		found bool
	}{
		{"text", types.File{Type: "text/plain"}, "writer", true},
		{"image", types.File{Type: "image/png"}, "photos", true},
		{"video", types.File{Type: "video/mp4"}, "video", true},
		{"audio", types.File{Type: "audio/mpeg"}, "music", true},
		{"unknown falls back to writer", types.File{Type: "application/octet-stream"}, "writer", true},
		{"folder", types.File{Type: types.FolderType}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.AppForFile(tt.file)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
