package terminal

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/GriffinCanCode/nextmac/internal/domain/desktop"
	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

const (
	user     = "admin"
	hostname = "nextmac"
)

// env is what a command can see while it runs
type env struct {
	session *Session
	state   desktop.State
	now     time.Time
	uptime  time.Duration
	fileID  func() string
}

type command struct {
	run func(e *env, args []string) Result
}

func text(format string, a ...any) Result {
	return Result{Output: fmt.Sprintf(format, a...)}
}

func static(out string) command {
	return command{run: func(*env, []string) Result { return Result{Output: out} }}
}

// commandOrder is the order help lists commands in
var commandOrder = []string{
	"help", "clear", "echo", "date", "whoami", "ls", "cd", "pwd", "uname", "neofetch",
	"exit", "touch", "mkdir", "cat", "open", "rm", "ping", "top", "history", "man", "sudo",
	"df", "kill", "reboot",
}

var manual = map[string]string{
	"ls":    "ls [PATTERN] - list desktop files, optionally filtered by a glob",
	"touch": "touch NAME... - create empty text files on the desktop",
	"mkdir": "mkdir NAME... - create folders on the desktop",
	"cat":   "cat NAME... - print the contents of text files",
	"open":  "open NAME... - open files in the app registered for their type",
	"rm":    "rm [-r] NAME... - move files to the trash",
}

var commands = map[string]command{
	"help": static("Available commands: " + strings.Join(commandOrder, ", ")),
	"clear": {run: func(*env, []string) Result {
		return Result{Clear: true}
	}},
	"echo": {run: func(_ *env, args []string) Result {
		return Result{Output: strings.Join(args, " ")}
	}},
	"date": {run: func(e *env, _ []string) Result {
		return Result{Output: e.now.Format(time.UnixDate)}
	}},
	"whoami": static(user),
	"ls":     {run: ls},
	"cd":     {run: cd},
	"pwd": {run: func(e *env, _ []string) Result {
		return Result{Output: e.session.cwd}
	}},
	"uname": {run: func(_ *env, args []string) Result {
		if len(args) > 0 && args[0] == "-a" {
			return Result{Output: "NextMac Kernel Version 1.0.0 Darwin x86_64"}
		}
		return Result{Output: "NextMac"}
	}},
	"neofetch": {run: neofetch},
	"exit": {run: func(*env, []string) Result {
		return Result{Output: "logout", Exit: true}
	}},
	"touch": {run: touch},
	"mkdir": {run: mkdir},
	"cat":   {run: cat},
	"open":  {run: open},
	"rm":    {run: rm},
	"ping": {run: func(_ *env, args []string) Result {
		host := "localhost"
		if len(args) > 0 {
			host = args[0]
		}
		return text("PING %s (127.0.0.1): 56 data bytes\n64 bytes from 127.0.0.1: icmp_seq=0 ttl=64 time=0.042 ms\n...", host)
	}},
	"top": {run: top},
	"history": {run: func(e *env, _ []string) Result {
		return Result{Output: strings.Join(e.session.history, "\n")}
	}},
	"man": {run: func(_ *env, args []string) Result {
		if len(args) == 0 {
			return Result{Output: "What manual page do you want?"}
		}
		if page, ok := manual[args[0]]; ok {
			return Result{Output: page}
		}
		return text("No manual entry for %s", args[0])
	}},
	"sudo": static(user + " is not in the sudoers file. This incident will be reported."),
	"df": static("Filesystem     1K-blocks      Used Available Use% Mounted on\n" +
		"tmpfs         16777216         0  16777216   0% /"),
	"kill":   static("kill: operation not permitted"),
	"reboot": static("reboot: Operation not permitted"),
}

func ls(e *env, args []string) Result {
	files := e.state.DesktopFiles
	if len(args) > 0 && !isRoot(args[0]) {
		matched, err := match(args[0], files)
		if err != nil {
			return text("ls: invalid pattern '%s'", args[0])
		}
		if len(matched) == 0 {
			return text("ls: cannot access '%s': No such file or directory", args[0])
		}
		files = matched
	}

	if len(files) == 0 {
		return Result{Output: "Desktop is empty."}
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = displayName(f)
	}
	return Result{Output: strings.Join(names, "\n")}
}

func cd(e *env, args []string) Result {
	if len(args) == 0 || isRoot(args[0]) {
		e.session.cwd = rootDir
		return Result{}
	}
	return text("cd: no such file or directory: %s", args[0])
}

func touch(e *env, args []string) Result {
	if len(args) == 0 {
		return Result{Output: "touch: missing file operand"}
	}

	var added []types.File
	for _, name := range args {
		if exists(e.state, name) || containsName(added, name) {
			continue
		}
		added = append(added, types.File{ID: e.fileID(), Name: name, Type: "text/plain"})
	}
	return withFiles(Result{}, added)
}

func mkdir(e *env, args []string) Result {
	if len(args) == 0 {
		return Result{Output: "mkdir: missing operand"}
	}

	var (
		added []types.File
		errs  []string
	)
	for _, name := range args {
		if exists(e.state, name) || containsName(added, name) {
			errs = append(errs, fmt.Sprintf("mkdir: cannot create directory '%s': File exists", name))
			continue
		}
		added = append(added, types.File{ID: e.fileID(), Name: name, Type: types.FolderType})
	}
	return withFiles(Result{Output: strings.Join(errs, "\n")}, added)
}

func cat(e *env, args []string) Result {
	if len(args) == 0 {
		return Result{}
	}

	var out []string
	for _, arg := range args {
		files, err := match(arg, e.state.DesktopFiles)
		if err != nil || len(files) == 0 {
			out = append(out, fmt.Sprintf("cat: %s: No such file or directory", arg))
			continue
		}
		for _, f := range files {
			switch {
			case f.IsFolder():
				out = append(out, fmt.Sprintf("cat: %s: Is a directory", f.Name))
			case isText(f):
				out = append(out, f.Content)
			default:
				out = append(out, fmt.Sprintf("cat: %s: binary file (%s)", f.Name, f.Type))
			}
		}
	}
	return Result{Output: strings.Join(out, "\n")}
}

func open(e *env, args []string) Result {
	if len(args) == 0 {
		return Result{Output: "open: missing file operand"}
	}

	var (
		res  Result
		errs []string
	)
	for _, arg := range args {
		files, err := match(arg, e.state.DesktopFiles)
		if err != nil || len(files) == 0 {
			errs = append(errs, fmt.Sprintf("open: %s: No such file or directory", arg))
			continue
		}
		for _, f := range files {
			if f.IsFolder() {
				errs = append(errs, fmt.Sprintf("open: %s: Is a directory", f.Name))
				continue
			}
			res.Actions = append(res.Actions, desktop.Open{File: &f})
		}
	}
	res.Output = strings.Join(errs, "\n")
	return res
}

func rm(e *env, args []string) Result {
	recursive := false
	var targets []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			recursive = recursive || strings.ContainsAny(arg, "rR")
			continue
		}
		targets = append(targets, arg)
	}
	if len(targets) == 0 {
		return Result{Output: "rm: missing operand"}
	}

	var (
		res  Result
		errs []string
		seen = map[string]struct{}{}
	)
	for _, arg := range targets {
		files, err := match(arg, e.state.DesktopFiles)
		if err != nil || len(files) == 0 {
			errs = append(errs, fmt.Sprintf("rm: cannot remove '%s': No such file or directory", arg))
			continue
		}
		for _, f := range files {
			if f.IsFolder() && !recursive {
				errs = append(errs, fmt.Sprintf("rm: cannot remove '%s': Is a directory", f.Name))
				continue
			}
			if _, dup := seen[f.ID]; dup {
				continue
			}
			seen[f.ID] = struct{}{}
			res.Actions = append(res.Actions, desktop.DeleteFile{FileID: f.ID})
		}
	}
	res.Output = strings.Join(errs, "\n")
	return res
}

func neofetch(e *env, _ []string) Result {
	return text(`        .--.        %s@%s
       |o_o |       -----------
       |:_/ |       OS: NextMac 1.0
      //   \ \      Host: Browser
     (|     | )     Kernel: 1.0.0
    /'\_   _/ `+"`"+`\    Uptime: %ds
    \___)=(___/     Shell: bash
                    Apps: %d installed`,
		user, hostname, int(e.uptime.Seconds()), len(e.state.InstalledApps))
}

func top(e *env, _ []string) Result {
	if len(e.state.Windows) == 0 {
		return Result{Output: "No running processes."}
	}

	windows := append([]types.Window(nil), e.state.Windows...)
	sort.Slice(windows, func(i, j int) bool { return windows[i].ZIndex > windows[j].ZIndex })

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PID\tAPP\tSTATE\tTITLE")
	for _, w := range windows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", w.ZIndex, w.AppID, w.State, w.Title)
	}
	tw.Flush()
	return Result{Output: strings.TrimRight(b.String(), "\n")}
}

// match resolves a name or glob pattern against the desktop set
func match(pattern string, files []types.File) ([]types.File, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		for _, f := range files {
			if f.Name == strings.TrimSuffix(pattern, "/") {
				return []types.File{f}, nil
			}
		}
		return nil, nil
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	var out []types.File
	for _, f := range files {
		ok, err := doublestar.Match(pattern, f.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func withFiles(res Result, files []types.File) Result {
	if len(files) > 0 {
		res.Actions = append(res.Actions, desktop.AddDesktopFiles{Files: files})
	}
	return res
}

func exists(s desktop.State, name string) bool {
	_, ok := s.DesktopFileByName(name)
	return ok
}

func containsName(files []types.File, name string) bool {
	for _, f := range files {
		if f.Name == name {
			return true
		}
	}
	return false
}

func displayName(f types.File) string {
	if f.IsFolder() {
		return f.Name + "/"
	}
	return f.Name
}

func isRoot(path string) bool {
	return path == rootDir || path == "~" || path == "."
}

func isText(f types.File) bool {
	return strings.HasPrefix(f.Type, "text/") || f.Type == "application/json" || f.Type == ""
}
