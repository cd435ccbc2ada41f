package types

// WindowState represents window lifecycle states
type WindowState string

const (
	WindowNormal    WindowState = "normal"
	WindowMinimized WindowState = "minimized"
	WindowMaximized WindowState = "maximized"
)

// FolderType is the file type tag used for folders
const FolderType = "folder"

// Position represents window position on screen
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size represents window dimensions
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Viewport describes the screen area windows are laid out in
type Viewport struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	TopBarHeight float64 `json:"topBarHeight"`
	DockHeight   float64 `json:"dockHeight"`
}

// AvailableHeight returns the height left between the top bar and the dock
func (v Viewport) AvailableHeight() float64 {
	return v.Height - v.TopBarHeight - v.DockHeight
}

// File represents a simulated filesystem entry
type File struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`    // MIME type or FolderType
	Content string `json:"content"` // Text or data URI; empty for folders
}

// IsFolder reports whether the entry is a folder
func (f File) IsFolder() bool {
	return f.Type == FolderType
}

// Window represents an open application window
type Window struct {
	ID       string      `json:"id"`
	AppID    string      `json:"appId"`
	Title    string      `json:"title"`
	Position Position    `json:"position"`
	Size     Size        `json:"size"`
	ZIndex   int         `json:"zIndex"`
	State    WindowState `json:"state"`
	File     *File       `json:"file,omitempty"`
}
