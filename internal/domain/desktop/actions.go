package desktop

import "github.com/GriffinCanCode/nextmac/internal/shared/types"

// Kind names an action variant on the wire
type Kind string

const (
	KindOpen                  Kind = "OPEN"
	KindClose                 Kind = "CLOSE"
	KindFocus                 Kind = "FOCUS"
	KindMinimize              Kind = "MINIMIZE"
	KindToggleMaximize        Kind = "TOGGLE_MAXIMIZE"
	KindUpdateWindow          Kind = "UPDATE_WINDOW"
	KindTileWindows           Kind = "TILE_WINDOWS"
	KindAddDesktopFiles       Kind = "ADD_DESKTOP_FILES"
	KindUpdateDesktopFile     Kind = "UPDATE_DESKTOP_FILE"
	KindCreateFolder          Kind = "CREATE_FOLDER"
	KindDeleteFile            Kind = "DELETE_FILE"
	KindRestoreFile           Kind = "RESTORE_FILE"
	KindPermanentlyDeleteFile Kind = "PERMANENTLY_DELETE_FILE"
	KindEmptyTrash            Kind = "EMPTY_TRASH"
	KindChangePassword        Kind = "CHANGE_PASSWORD"
	KindInstallApp            Kind = "INSTALL_APP"
	KindUninstallApp          Kind = "UNINSTALL_APP"
	KindPinApp                Kind = "PIN_APP"
	KindUnpinApp              Kind = "UNPIN_APP"
	KindShutdown              Kind = "SHUTDOWN"
)

// Kinds lists every action variant in declaration order
func Kinds() []Kind {
	return []Kind{
		KindOpen, KindClose, KindFocus, KindMinimize, KindToggleMaximize,
		KindUpdateWindow, KindTileWindows, KindAddDesktopFiles, KindUpdateDesktopFile,
		KindCreateFolder, KindDeleteFile, KindRestoreFile, KindPermanentlyDeleteFile,
		KindEmptyTrash, KindChangePassword, KindInstallApp, KindUninstallApp,
		KindPinApp, KindUnpinApp, KindShutdown,
	}
}

// Action is a request to change the session state.
// The set is closed: variants live in this package only.
type Action interface {
	Kind() Kind
	apply(r *Reducer, s State) State
}

// Open launches an app, or raises its window when the app is a singleton.
// With a File and no AppID the app is picked from the file type.
type Open struct {
	AppID    string          `json:"appId"`
	Position *types.Position `json:"position,omitempty"`
	Size     *types.Size     `json:"size,omitempty"`
	File     *types.File     `json:"file,omitempty"`
}

// Close removes a window
type Close struct {
	WindowID string `json:"id"`
}

// Focus raises a window to the top and restores it
type Focus struct {
	WindowID string `json:"id"`
}

// Minimize hides a window and drops focus from it
type Minimize struct {
	WindowID string `json:"id"`
}

// ToggleMaximize flips a window between normal and maximized
type ToggleMaximize struct {
	WindowID string `json:"id"`
}

// UpdateWindow patches the geometry or title of a window.
// Nil fields are left as they are.
type UpdateWindow struct {
	WindowID string          `json:"id"`
	Title    *string         `json:"title,omitempty"`
	Position *types.Position `json:"position,omitempty"`
	Size     *types.Size     `json:"size,omitempty"`
}

// TileWindows arranges all normal windows in a grid over the usable area
type TileWindows struct{}

// AddDesktopFiles appends files to the desktop
type AddDesktopFiles struct {
	Files []types.File `json:"files"`
}

// UpdateDesktopFile replaces a desktop file that carries the same id
type UpdateDesktopFile struct {
	File types.File `json:"file"`
}

// CreateFolder adds an empty folder with a unique name
type CreateFolder struct{}

// DeleteFile moves a desktop file to the trash
type DeleteFile struct {
	FileID string `json:"id"`
}

// RestoreFile moves a trashed file back to the desktop
type RestoreFile struct {
	FileID string `json:"id"`
}

// PermanentlyDeleteFile removes a file from the trash
type PermanentlyDeleteFile struct {
	FileID string `json:"id"`
}

// EmptyTrash removes every trashed file
type EmptyTrash struct{}

// ChangePassword replaces the stored login secret.
// The secret is stored as given; callers validate and hash it first.
type ChangePassword struct {
	Secret string `json:"password"`
}

// InstallApp adds a catalog app to the installed set
type InstallApp struct {
	AppID string `json:"appId"`
}

// UninstallApp removes a non-core app, its windows and its pin
type UninstallApp struct {
	AppID string `json:"appId"`
}

// PinApp adds an app to the quick-launch strip
type PinApp struct {
	AppID string `json:"appId"`
}

// UnpinApp removes an app from the quick-launch strip
type UnpinApp struct {
	AppID string `json:"appId"`
}

// Shutdown raises the shutdown flag
type Shutdown struct{}

func (Open) Kind() Kind                  { return KindOpen }
func (Close) Kind() Kind                 { return KindClose }
func (Focus) Kind() Kind                 { return KindFocus }
func (Minimize) Kind() Kind              { return KindMinimize }
func (ToggleMaximize) Kind() Kind        { return KindToggleMaximize }
func (UpdateWindow) Kind() Kind          { return KindUpdateWindow }
func (TileWindows) Kind() Kind           { return KindTileWindows }
func (AddDesktopFiles) Kind() Kind       { return KindAddDesktopFiles }
func (UpdateDesktopFile) Kind() Kind     { return KindUpdateDesktopFile }
func (CreateFolder) Kind() Kind          { return KindCreateFolder }
func (DeleteFile) Kind() Kind            { return KindDeleteFile }
func (RestoreFile) Kind() Kind           { return KindRestoreFile }
func (PermanentlyDeleteFile) Kind() Kind { return KindPermanentlyDeleteFile }
func (EmptyTrash) Kind() Kind            { return KindEmptyTrash }
func (ChangePassword) Kind() Kind        { return KindChangePassword }
func (InstallApp) Kind() Kind            { return KindInstallApp }
func (UninstallApp) Kind() Kind          { return KindUninstallApp }
func (PinApp) Kind() Kind                { return KindPinApp }
func (UnpinApp) Kind() Kind              { return KindUnpinApp }
func (Shutdown) Kind() Kind              { return KindShutdown }
