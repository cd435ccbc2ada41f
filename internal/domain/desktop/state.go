package desktop

import (
	"slices"

	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

const (
	// InitialZIndex is the z-index counter of a fresh session
	InitialZIndex = 100
	// DefaultPassword is the login secret of a fresh installation
	DefaultPassword = "admin"
)

// State is the complete session state of one desktop
type State struct {
	Windows           []types.Window `json:"windows"`
	FocusedWindowID   string         `json:"focusedWindowId,omitempty"`
	LastZIndex        int            `json:"lastZIndex"`
	DesktopFiles      []types.File   `json:"desktopFiles"`
	TrashedFiles      []types.File   `json:"trashedFiles"`
	InstalledApps     []string       `json:"installedApps"`
	PinnedApps        []string       `json:"pinnedApps"`
	Password          string         `json:"-"`
	ShutdownRequested bool           `json:"shutdownRequested"`
}

// Defaults supplies the install-time app sets
type Defaults interface {
	DefaultInstalled() []string
	DefaultPinned() []string
}

// NewState returns the state of a fresh installation
func NewState(defaults Defaults) State {
	return State{
		Windows:       []types.Window{},
		LastZIndex:    InitialZIndex,
		DesktopFiles:  []types.File{},
		TrashedFiles:  []types.File{},
		InstalledApps: slices.Clone(defaults.DefaultInstalled()),
		PinnedApps:    slices.Clone(defaults.DefaultPinned()),
		Password:      DefaultPassword,
	}
}

// Clone returns a deep copy safe to hand to other goroutines
func (s State) Clone() State {
	out := s
	out.Windows = make([]types.Window, len(s.Windows))
	for i, w := range s.Windows {
		if w.File != nil {
			f := *w.File
			w.File = &f
		}
		out.Windows[i] = w
	}
	out.DesktopFiles = slices.Clone(s.DesktopFiles)
	out.TrashedFiles = slices.Clone(s.TrashedFiles)
	out.InstalledApps = slices.Clone(s.InstalledApps)
	out.PinnedApps = slices.Clone(s.PinnedApps)
	return out
}

// Window returns the window with the given id
func (s State) Window(id string) (types.Window, bool) {
	if i := s.windowIndex(id); i >= 0 {
		return s.Windows[i], true
	}
	return types.Window{}, false
}

// FocusedWindow returns the focused window, if any
func (s State) FocusedWindow() (types.Window, bool) {
	if s.FocusedWindowID == "" {
		return types.Window{}, false
	}
	return s.Window(s.FocusedWindowID)
}

// WindowsOf returns the windows opened for an app
func (s State) WindowsOf(appID string) []types.Window {
	var out []types.Window
	for _, w := range s.Windows {
		if w.AppID == appID {
			out = append(out, w)
		}
	}
	return out
}

// DesktopFile returns a file from the desktop set
func (s State) DesktopFile(id string) (types.File, bool) {
	if i := fileIndex(s.DesktopFiles, id); i >= 0 {
		return s.DesktopFiles[i], true
	}
	return types.File{}, false
}

// TrashedFile returns a file from the trash set
func (s State) TrashedFile(id string) (types.File, bool) {
	if i := fileIndex(s.TrashedFiles, id); i >= 0 {
		return s.TrashedFiles[i], true
	}
	return types.File{}, false
}

// DesktopFileByName returns the first desktop file with the given name
func (s State) DesktopFileByName(name string) (types.File, bool) {
	for _, f := range s.DesktopFiles {
		if f.Name == name {
			return f, true
		}
	}
	return types.File{}, false
}

// IsInstalled reports whether an app is installed
func (s State) IsInstalled(appID string) bool {
	return slices.Contains(s.InstalledApps, appID)
}

// IsPinned reports whether an app is pinned to the quick-launch strip
func (s State) IsPinned(appID string) bool {
	return slices.Contains(s.PinnedApps, appID)
}

func (s State) windowIndex(id string) int {
	return slices.IndexFunc(s.Windows, func(w types.Window) bool { return w.ID == id })
}

func (s State) windowIndexByApp(appID string) int {
	return slices.IndexFunc(s.Windows, func(w types.Window) bool { return w.AppID == appID })
}

func fileIndex(files []types.File, id string) int {
	return slices.IndexFunc(files, func(f types.File) bool { return f.ID == id })
}

// withWindow returns a copy of s whose window i is replaced by w
func (s State) withWindow(i int, w types.Window) State {
	s.Windows = slices.Clone(s.Windows)
	s.Windows[i] = w
	return s
}

// raise gives window i the next z-index, restores it and focuses it
func (s State) raise(i int) State {
	w := s.Windows[i]
	w.ZIndex = s.LastZIndex + 1
	w.State = types.WindowNormal

	s = s.withWindow(i, w)
	s.FocusedWindowID = w.ID
	s.LastZIndex = w.ZIndex
	return s
}
