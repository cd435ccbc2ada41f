package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/nextmac/internal/domain/terminal"
)

// ExecRequest runs one command line. An empty session id opens a new session.
type ExecRequest struct {
	SessionID string `json:"sessionId"`
	Command   string `json:"command"`
}

// ListTerminalSessions lists open terminal sessions
func (h *Handlers) ListTerminalSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.terminal.List()})
}

// CreateTerminalSession opens a terminal session
func (h *Handlers) CreateTerminalSession(c *gin.Context) {
	c.JSON(http.StatusCreated, h.terminal.Create())
}

// CloseTerminalSession closes a terminal session
func (h *Handlers) CloseTerminalSession(c *gin.Context) {
	if !h.terminal.Close(c.Param("id")) {
		fail(c, http.StatusNotFound, terminal.ErrSessionNotFound.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// ExecTerminal runs a command and applies the desktop actions it produced
func (h *Handlers) ExecTerminal(c *gin.Context) {
	var req ExecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		req.SessionID = h.terminal.Create().ID
	}

	res, err := h.terminal.Exec(req.SessionID, req.Command, h.store.State())
	if errors.Is(err, terminal.ErrSessionNotFound) {
		fail(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	if len(res.Actions) > 0 {
		h.store.DispatchAll(res.Actions...)
	}
	if res.Exit {
		h.terminal.Close(req.SessionID)
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": req.SessionID,
		"result":    res,
		"seq":       h.store.Seq(),
	})
}
