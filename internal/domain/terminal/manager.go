package terminal

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GriffinCanCode/nextmac/internal/domain/desktop"
	"github.com/GriffinCanCode/nextmac/internal/shared/id"
)

const rootDir = "/"

// Recorder receives command metrics
type Recorder interface {
	RecordTerminalCommand(command string)
}

// Manager manages terminal sessions
type Manager struct {
	sessions sync.Map // map[string]*Session
	started  time.Time
	now      func() time.Time
	fileID   func() string
	metrics  Recorder
}

// Option configures a Manager
type Option func(*Manager)

// WithClock sets the time source for date, uptime and session start
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithFileIDs sets the id source for files created by touch and mkdir
func WithFileIDs(next func() string) Option {
	return func(m *Manager) { m.fileID = next }
}

// WithRecorder sets the metrics sink
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.metrics = r }
}

// NewManager creates a session manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		now:    time.Now,
		fileID: id.NewFileID,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.started = m.now()
	return m
}

// Create opens a new session at the root directory
func (m *Manager) Create() SessionInfo {
	s := &Session{
		ID:        uuid.NewString(),
		StartedAt: m.now(),
		cwd:       rootDir,
	}
	m.sessions.Store(s.ID, s)
	return s.info()
}

// Get returns a session's public info
func (m *Manager) Get(sessionID string) (SessionInfo, bool) {
	s, ok := m.session(sessionID)
	if !ok {
		return SessionInfo{}, false
	}
	return s.info(), true
}

// Close removes a session
func (m *Manager) Close(sessionID string) bool {
	_, ok := m.sessions.LoadAndDelete(sessionID)
	return ok
}

// List returns all sessions, oldest first
func (m *Manager) List() []SessionInfo {
	var out []SessionInfo
	m.sessions.Range(func(_, v any) bool {
		out = append(out, v.(*Session).info())
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// Exec runs one command line against a snapshot of the desktop
func (m *Manager) Exec(sessionID, line string, snapshot desktop.State) (Result, error) {
	s, ok := m.session(sessionID)
	if !ok {
		return Result{}, ErrSessionNotFound
	}

	line = strings.TrimSpace(line)
	res := Result{Command: line}
	if line == "" {
		return res, nil
	}

	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	s.mu.Lock()
	defer s.mu.Unlock()

	cmd, known := commands[name]
	if m.metrics != nil {
		label := name
		if !known {
			label = "unknown"
		}
		m.metrics.RecordTerminalCommand(label)
	}

	if known {
		env := &env{
			session: s,
			state:   snapshot,
			now:     m.now(),
			uptime:  m.now().Sub(m.started),
			fileID:  m.fileID,
		}
		res = cmd.run(env, args)
		res.Command = line
	} else {
		res.Output = "bash: " + name + ": command not found"
	}

	s.record(line)
	return res, nil
}

func (m *Manager) session(sessionID string) (*Session, bool) {
	v, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}
