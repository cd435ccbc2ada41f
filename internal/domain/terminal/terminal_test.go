package terminal

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/nextmac/internal/domain/catalog"
	"github.com/GriffinCanCode/nextmac/internal/domain/desktop"
	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

var clock = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

type counter map[string]int

func (c counter) RecordTerminalCommand(name string) { c[name]++ }

func newTestManager(t *testing.T, opts ...Option) (*Manager, string) {
	t.Helper()
	n := 0
	base := []Option{
		WithClock(func() time.Time { return clock }),
		WithFileIDs(func() string {
			n++
			return fmt.Sprintf("file-%d", n)
		}),
	}
	m := NewManager(append(base, opts...)...)
	return m, m.Create().ID
}

func stateWith(files ...types.File) desktop.State {
	s := desktop.NewState(catalog.MustDefault())
	s.DesktopFiles = files
	return s
}

func run(t *testing.T, m *Manager, id, line string, s desktop.State) Result {
	t.Helper()
	res, err := m.Exec(id, line, s)
	require.NoError(t, err)
	return res
}

func TestStaticCommands(t *testing.T) {
	m, id := newTestManager(t)
	s := stateWith()

	tests := []struct {
		line string
		want string
	}{
		{"echo hello   world", "hello world"},
		{"whoami", "admin"},
		{"pwd", "/"},
		{"uname", "NextMac"},
		{"uname -a", "NextMac Kernel Version 1.0.0 Darwin x86_64"},
		{"date", clock.Format(time.UnixDate)},
		{"kill 1", "kill: operation not permitted"},
		{"reboot", "reboot: Operation not permitted"},
		{"sudo rm", "admin is not in the sudoers file. This incident will be reported."},
		{"man foo", "No manual entry for foo"},
		{"frobnicate", "bash: frobnicate: command not found"},
		{"cd /nowhere", "cd: no such file or directory: /nowhere"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, m, id, tt.line, s).Output)
		})
	}
}

func TestHelpListsEveryCommand(t *testing.T) {
	m, id := newTestManager(t)
	out := run(t, m, id, "help", stateWith()).Output

	for name := range commands {
		assert.Contains(t, out, name)
	}
	assert.Len(t, commandOrder, len(commands))
}

func TestClearAndExit(t *testing.T) {
	m, id := newTestManager(t)
	assert.True(t, run(t, m, id, "clear", stateWith()).Clear)

	res := run(t, m, id, "exit", stateWith())
	assert.True(t, res.Exit)
	assert.Equal(t, "logout", res.Output)
}

func TestLs(t *testing.T) {
	m, id := newTestManager(t)
	s := stateWith(
		types.File{ID: "1", Name: "a.txt", Type: "text/plain"},
		types.File{ID: "2", Name: "b.png", Type: "image/png"},
		types.File{ID: "3", Name: "Projects", Type: types.FolderType},
	)

	assert.Equal(t, "a.txt\nb.png\nProjects/", run(t, m, id, "ls", s).Output)
	assert.Equal(t, "a.txt\nb.png\nProjects/", run(t, m, id, "ls /", s).Output)
	assert.Equal(t, "a.txt", run(t, m, id, "ls *.txt", s).Output)
	assert.Equal(t, "a.txt\nb.png", run(t, m, id, "ls *.{txt,png}", s).Output)
	assert.Equal(t, "ls: cannot access 'nope': No such file or directory", run(t, m, id, "ls nope", s).Output)
	assert.Equal(t, "ls: invalid pattern '[a'", run(t, m, id, "ls [a", s).Output)
	assert.Equal(t, "Desktop is empty.", run(t, m, id, "ls", stateWith()).Output)
}

func TestTouchAndMkdirEmitActions(t *testing.T) {
	m, id := newTestManager(t)
	s := stateWith(types.File{ID: "x", Name: "taken", Type: "text/plain"})

	res := run(t, m, id, "touch notes.txt taken notes.txt", s)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, desktop.AddDesktopFiles{Files: []types.File{
		{ID: "file-1", Name: "notes.txt", Type: "text/plain"},
	}}, res.Actions[0])

	res = run(t, m, id, "mkdir Projects taken", s)
	assert.Equal(t, "mkdir: cannot create directory 'taken': File exists", res.Output)
	require.Len(t, res.Actions, 1)
	add := res.Actions[0].(desktop.AddDesktopFiles)
	require.Len(t, add.Files, 1)
	assert.True(t, add.Files[0].IsFolder())
	assert.Equal(t, "Projects", add.Files[0].Name)

	assert.Equal(t, "touch: missing file operand", run(t, m, id, "touch", s).Output)
	assert.Empty(t, run(t, m, id, "touch", s).Actions)
}

func TestCat(t *testing.T) {
	m, id := newTestManager(t)
	s := stateWith(
		types.File{ID: "1", Name: "a.txt", Type: "text/plain", Content: "hello"},
		types.File{ID: "2", Name: "b.png", Type: "image/png", Content: "data:image/png;base64,AA=="},
		types.File{ID: "3", Name: "Projects", Type: types.FolderType},
	)

	assert.Equal(t, "hello", run(t, m, id, "cat a.txt", s).Output)
	assert.Equal(t, "cat: b.png: binary file (image/png)", run(t, m, id, "cat b.png", s).Output)
	assert.Equal(t, "cat: Projects: Is a directory", run(t, m, id, "cat Projects", s).Output)
	assert.Equal(t, "cat: z: No such file or directory", run(t, m, id, "cat z", s).Output)
}

func TestRm(t *testing.T) {
	m, id := newTestManager(t)
	s := stateWith(
		types.File{ID: "1", Name: "a.txt", Type: "text/plain"},
		types.File{ID: "2", Name: "b.txt", Type: "text/plain"},
		types.File{ID: "3", Name: "Projects", Type: types.FolderType},
	)

	res := run(t, m, id, "rm a.txt", s)
	assert.Empty(t, res.Output)
	assert.Equal(t, []desktop.Action{desktop.DeleteFile{FileID: "1"}}, res.Actions)

	res = run(t, m, id, "rm *.txt a.txt", s)
	assert.Equal(t, []desktop.Action{desktop.DeleteFile{FileID: "1"}, desktop.DeleteFile{FileID: "2"}}, res.Actions)

	res = run(t, m, id, "rm Projects", s)
	assert.Equal(t, "rm: cannot remove 'Projects': Is a directory", res.Output)
	assert.Empty(t, res.Actions)

	res = run(t, m, id, "rm -rf Projects", s)
	assert.Equal(t, []desktop.Action{desktop.DeleteFile{FileID: "3"}}, res.Actions)

	assert.Equal(t, "rm: cannot remove 'z': No such file or directory", run(t, m, id, "rm z", s).Output)
	assert.Equal(t, "rm: missing operand", run(t, m, id, "rm -r", s).Output)
}

func TestRmActionsApplyThroughReducer(t *testing.T) {
	m, id := newTestManager(t)
	r := desktop.NewReducer(catalog.MustDefault())
	s := desktop.NewState(catalog.MustDefault())

	for _, a := range run(t, m, id, "touch a.txt b.txt", s).Actions {
		s = r.Reduce(s, a)
	}
	for _, a := range run(t, m, id, "rm a.txt", s).Actions {
		s = r.Reduce(s, a)
	}

	assert.Equal(t, "b.txt", run(t, m, id, "ls", s).Output)
	require.Len(t, s.TrashedFiles, 1)
	assert.Equal(t, "a.txt", s.TrashedFiles[0].Name)
}

func TestOpen(t *testing.T) {
	m, id := newTestManager(t)
	r := desktop.NewReducer(catalog.MustDefault())
	s := stateWith(
		types.File{ID: "1", Name: "a.txt", Type: "text/plain", Content: "hello"},
		types.File{ID: "2", Name: "b.png", Type: "image/png", Content: "data:image/png;base64,AA=="},
		types.File{ID: "3", Name: "Projects", Type: types.FolderType},
	)

	res := run(t, m, id, "open a.txt b.png", s)
	assert.Empty(t, res.Output)
	require.Len(t, res.Actions, 2)
	for _, a := range res.Actions {
		s = r.Reduce(s, a)
	}
	require.Len(t, s.Windows, 2)
	assert.Equal(t, "writer", s.Windows[0].AppID)
	assert.Equal(t, "photos", s.Windows[1].AppID)

	res = run(t, m, id, "open Projects z", s)
	assert.Equal(t, "open: Projects: Is a directory\nopen: z: No such file or directory", res.Output)
	assert.Empty(t, res.Actions)
	assert.Equal(t, "open: missing file operand", run(t, m, id, "open", s).Output)
}

func TestTop(t *testing.T) {
	m, id := newTestManager(t)
	assert.Equal(t, "No running processes.", run(t, m, id, "top", stateWith()).Output)

	r := desktop.NewReducer(catalog.MustDefault())
	s := r.Reduce(stateWith(), desktop.Open{AppID: "terminal"})
	s = r.Reduce(s, desktop.Open{AppID: "finder"})

	lines := strings.Split(run(t, m, id, "top", s).Output, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "PID"))
	assert.Contains(t, lines[1], "finder")
	assert.Contains(t, lines[2], "terminal")
}

func TestHistoryIsPerSession(t *testing.T) {
	m, first := newTestManager(t)
	second := m.Create().ID
	s := stateWith()

	run(t, m, first, "echo one", s)
	run(t, m, first, "pwd", s)
	run(t, m, second, "whoami", s)
	run(t, m, first, "   ", s)

	assert.Equal(t, "echo one\npwd", run(t, m, first, "history", s).Output)
	assert.Equal(t, "whoami", run(t, m, second, "history", s).Output)

	info, ok := m.Get(first)
	require.True(t, ok)
	assert.Equal(t, 3, info.History)
}

func TestSessionLifecycle(t *testing.T) {
	m, id := newTestManager(t)
	assert.Len(t, m.List(), 1)

	assert.True(t, m.Close(id))
	assert.False(t, m.Close(id))

	_, err := m.Exec(id, "ls", stateWith())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestNeofetchUptime(t *testing.T) {
	now := clock
	m := NewManager(WithClock(func() time.Time { return now }))
	id := m.Create().ID
	now = now.Add(42 * time.Second)

	out := run(t, m, id, "neofetch", stateWith()).Output
	assert.Contains(t, out, "Uptime: 42s")
	assert.Contains(t, out, "admin@nextmac")
}

func TestRecorder(t *testing.T) {
	c := counter{}
	m, id := newTestManager(t, WithRecorder(c))
	run(t, m, id, "ls", stateWith())
	run(t, m, id, "ls", stateWith())
	run(t, m, id, "nope", stateWith())

	assert.Equal(t, 2, c["ls"])
	assert.Equal(t, 1, c["unknown"])
}
