// Package terminal implements the simulated shell of the Terminal app.
//
// Commands come from a static table and run against a snapshot of the
// desktop: they never write state directly. Commands that change files
// return desktop actions (touch and mkdir add files, rm moves them to the
// trash) for the caller to dispatch.
//
// Each session keeps its own working directory and command history.
//
// Example Usage:
//
//	m := terminal.NewManager()
//	info := m.Create()
//	res, err := m.Exec(info.ID, "ls *.txt", store.State())
//	store.DispatchAll(res.Actions...)
package terminal
