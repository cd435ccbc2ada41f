package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/nextmac/internal/domain/desktop"
	"github.com/GriffinCanCode/nextmac/internal/shared/id"
	"github.com/GriffinCanCode/nextmac/internal/shared/media"
	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

const (
	// MaxUploadSize bounds a single uploaded file
	MaxUploadSize = 10 << 20
	// MaxActionBatch bounds the actions accepted in one request
	MaxActionBatch = 100

	maxActionBody = 16 << 20
)

// StateResponse is the desktop state with its sequence number
type StateResponse struct {
	Seq   uint64        `json:"seq"`
	State desktop.State `json:"state"`
}

// GetState returns the current desktop state
func (h *Handlers) GetState(c *gin.Context) {
	s, seq := h.store.Snapshot()
	c.JSON(http.StatusOK, StateResponse{Seq: seq, State: s})
}

// GetFile looks a file up by id on the desktop, then in the trash
func (h *Handlers) GetFile(c *gin.Context) {
	fileID := c.Param("id")
	s := h.store.State()
	if f, ok := s.DesktopFile(fileID); ok {
		c.JSON(http.StatusOK, gin.H{"file": f, "location": "desktop"})
		return
	}
	if f, ok := s.TrashedFile(fileID); ok {
		c.JSON(http.StatusOK, gin.H{"file": f, "location": "trash"})
		return
	}
	fail(c, http.StatusNotFound, "file not found: "+fileID)
}

// DispatchActions applies one action envelope, or an array of them, in order
func (h *Handlers) DispatchActions(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxActionBody))
	if err != nil {
		fail(c, http.StatusBadRequest, "failed to read body")
		return
	}

	actions, err := decodeActions(body)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	for _, a := range actions {
		if a.Kind() == desktop.KindChangePassword {
			fail(c, http.StatusBadRequest, "use /auth/password to change the password")
			return
		}
	}

	h.store.DispatchAll(actions...)
	s, seq := h.store.Snapshot()
	c.JSON(http.StatusOK, StateResponse{Seq: seq, State: s})
}

func decodeActions(body []byte) ([]desktop.Action, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New("empty body")
	}
	if body[0] != '[' {
		a, err := desktop.DecodeAction(body)
		if err != nil {
			return nil, err
		}
		return []desktop.Action{a}, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", desktop.ErrInvalidPayload, err)
	}
	if len(raws) > MaxActionBatch {
		return nil, fmt.Errorf("too many actions: %d > %d", len(raws), MaxActionBatch)
	}
	actions := make([]desktop.Action, 0, len(raws))
	for i, raw := range raws {
		a, err := desktop.DecodeAction(raw)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// UploadFiles imports multipart "file" parts onto the desktop
func (h *Handlers) UploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, "expected multipart form")
		return
	}
	headers := form.File["file"]
	if len(headers) == 0 {
		fail(c, http.StatusBadRequest, "no files uploaded")
		return
	}

	files := make([]types.File, 0, len(headers))
	for _, fh := range headers {
		f, err := h.readUpload(fh)
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		files = append(files, f)
	}

	h.store.Dispatch(desktop.AddDesktopFiles{Files: files})
	h.log.Info("Files uploaded", zap.Int("count", len(files)))

	s, seq := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{"files": files, "seq": seq, "state": s})
}

func (h *Handlers) readUpload(fh *multipart.FileHeader) (types.File, error) {
	if fh.Size > MaxUploadSize {
		return types.File{}, fmt.Errorf("%s exceeds the %d byte limit", fh.Filename, MaxUploadSize)
	}
	r, err := fh.Open()
	if err != nil {
		return types.File{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return types.File{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return types.File{}, fmt.Errorf("%s exceeds the %d byte limit", fh.Filename, MaxUploadSize)
	}

	mime := media.Detect(data, fh.Header.Get("Content-Type"))
	file := types.File{
		ID:   id.NewFileID(),
		Name: h.cleanName(fh.Filename),
		Type: mime,
	}
	switch {
	case media.IsImage(mime):
		file.Content = media.DataURI(mime, data)
	case media.IsText(mime) || utf8.Valid(data):
		text, err := media.DecodeText(data)
		if err != nil {
			file.Content = media.DataURI(mime, data)
			break
		}
		file.Content = text
	default:
		file.Content = media.DataURI(mime, data)
	}
	return file, nil
}

// cleanName strips directories and markup from a client supplied file name
func (h *Handlers) cleanName(name string) string {
	name = html.UnescapeString(h.names.Sanitize(name))
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		return "untitled"
	}
	return name
}
