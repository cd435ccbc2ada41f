package desktop

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

var (
	// ErrUnknownAction is returned for an unrecognized action type
	ErrUnknownAction = errors.New("unknown action type")
	// ErrInvalidPayload is returned when a payload does not fit its action
	ErrInvalidPayload = errors.New("invalid action payload")
)

// Envelope is the wire form of an action: {"type": KIND, "payload": ...}
type Envelope struct {
	Type    Kind            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type decodeFunc func(payload json.RawMessage) (Action, error)

var decoders = map[Kind]decodeFunc{
	KindOpen: func(p json.RawMessage) (Action, error) {
		var a Open
		if isString(p) {
			return a, decodeString(p, &a.AppID)
		}
		return a, decodeObject(p, &a)
	},
	KindClose:    idDecoder(func(id string) Action { return Close{WindowID: id} }),
	KindFocus:    idDecoder(func(id string) Action { return Focus{WindowID: id} }),
	KindMinimize: idDecoder(func(id string) Action { return Minimize{WindowID: id} }),
	KindToggleMaximize: idDecoder(func(id string) Action {
		return ToggleMaximize{WindowID: id}
	}),
	KindUpdateWindow: func(p json.RawMessage) (Action, error) {
		var a UpdateWindow
		return a, decodeObject(p, &a)
	},
	KindTileWindows: func(json.RawMessage) (Action, error) { return TileWindows{}, nil },
	KindAddDesktopFiles: func(p json.RawMessage) (Action, error) {
		var a AddDesktopFiles
		if bytes.HasPrefix(bytes.TrimSpace(p), []byte("[")) {
			return a, decodeStrict(p, &a.Files)
		}
		return a, decodeObject(p, &a)
	},
	KindUpdateDesktopFile: func(p json.RawMessage) (Action, error) {
		var f types.File
		if err := decodeObject(p, &f); err != nil {
			return nil, err
		}
		return UpdateDesktopFile{File: f}, nil
	},
	KindCreateFolder:          func(json.RawMessage) (Action, error) { return CreateFolder{}, nil },
	KindDeleteFile:            idDecoder(func(id string) Action { return DeleteFile{FileID: id} }),
	KindRestoreFile:           idDecoder(func(id string) Action { return RestoreFile{FileID: id} }),
	KindPermanentlyDeleteFile: idDecoder(func(id string) Action { return PermanentlyDeleteFile{FileID: id} }),
	KindEmptyTrash:            func(json.RawMessage) (Action, error) { return EmptyTrash{}, nil },
	KindChangePassword: func(p json.RawMessage) (Action, error) {
		var a ChangePassword
		if isString(p) {
			return a, decodeString(p, &a.Secret)
		}
		return a, decodeObject(p, &a)
	},
	KindInstallApp:   appDecoder(func(id string) Action { return InstallApp{AppID: id} }),
	KindUninstallApp: appDecoder(func(id string) Action { return UninstallApp{AppID: id} }),
	KindPinApp:       appDecoder(func(id string) Action { return PinApp{AppID: id} }),
	KindUnpinApp:     appDecoder(func(id string) Action { return UnpinApp{AppID: id} }),
	KindShutdown:     func(json.RawMessage) (Action, error) { return Shutdown{}, nil },
}

// DecodeAction parses a wire envelope into its action variant
func DecodeAction(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return env.Decode()
}

// Decode converts the envelope into its action variant
func (e Envelope) Decode() (Action, error) {
	decode, ok := decoders[e.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, e.Type)
	}

	a, err := decode(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Type, err)
	}
	return a, nil
}

// EncodeAction renders an action in wire form
func EncodeAction(a Action) ([]byte, error) {
	var body any = a
	switch v := a.(type) {
	case TileWindows, CreateFolder, EmptyTrash, Shutdown:
		body = nil
	case UpdateDesktopFile:
		body = v.File
	}

	env := Envelope{Type: a.Kind()}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		env.Payload = payload
	}
	return json.Marshal(env)
}

// idDecoder accepts either a bare id string or {"id": ...}
func idDecoder(build func(id string) Action) decodeFunc {
	return func(p json.RawMessage) (Action, error) {
		id, err := decodeRef(p, "id")
		if err != nil {
			return nil, err
		}
		return build(id), nil
	}
}

// appDecoder accepts either a bare app id string or {"appId": ...}
func appDecoder(build func(id string) Action) decodeFunc {
	return func(p json.RawMessage) (Action, error) {
		id, err := decodeRef(p, "appId")
		if err != nil {
			return nil, err
		}
		return build(id), nil
	}
}

func decodeRef(p json.RawMessage, field string) (string, error) {
	var id string
	if isString(p) {
		return id, decodeString(p, &id)
	}

	var obj map[string]json.RawMessage
	if err := decodeObject(p, &obj); err != nil {
		return "", err
	}
	raw, ok := obj[field]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrInvalidPayload, field)
	}
	return id, decodeString(raw, &id)
}

func isString(p json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(p), []byte(`"`))
}

func decodeString(p json.RawMessage, dst *string) error {
	if err := json.Unmarshal(p, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func decodeObject(p json.RawMessage, dst any) error {
	if !bytes.HasPrefix(bytes.TrimSpace(p), []byte("{")) {
		return fmt.Errorf("%w: expected an object", ErrInvalidPayload)
	}
	return decodeStrict(p, dst)
}

func decodeStrict(p json.RawMessage, dst any) error {
	if err := json.Unmarshal(p, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
