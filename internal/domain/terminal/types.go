package terminal

import (
	"errors"
	"sync"
	"time"

	"github.com/GriffinCanCode/nextmac/internal/domain/desktop"
)

// ErrSessionNotFound is returned for an unknown session id
var ErrSessionNotFound = errors.New("terminal session not found")

// MaxHistory caps the per-session command history
const MaxHistory = 500

// Result is the outcome of one command line
type Result struct {
	Command string           `json:"command"`
	Output  string           `json:"output"`
	Clear   bool             `json:"clear,omitempty"`
	Exit    bool             `json:"exit,omitempty"`
	Actions []desktop.Action `json:"-"`
}

// Session is one terminal window's shell
type Session struct {
	ID        string
	StartedAt time.Time

	mu      sync.Mutex
	cwd     string
	history []string
}

// SessionInfo is the public representation of a session
type SessionInfo struct {
	ID         string    `json:"id"`
	WorkingDir string    `json:"workingDir"`
	History    int       `json:"history"`
	StartedAt  time.Time `json:"startedAt"`
}

func (s *Session) info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		ID:         s.ID,
		WorkingDir: s.cwd,
		History:    len(s.history),
		StartedAt:  s.StartedAt,
	}
}

func (s *Session) record(line string) {
	s.history = append(s.history, line)
	if len(s.history) > MaxHistory {
		s.history = s.history[len(s.history)-MaxHistory:]
	}
}
