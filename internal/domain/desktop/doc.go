// Package desktop implements the window/session state machine of NextMac.
//
// State is a plain value: open windows, the desktop and trash file sets,
// installed and pinned apps, the login secret and the shutdown flag. The
// Reducer maps (State, Action) to the next State without side effects and
// never mutates its input; slices are copied before they are written.
//
// Actions form a closed set. Each variant implements its own transition, so
// adding a variant without a transition does not compile. Actions that name
// an unknown window, file or app, or that break a policy such as removing a
// core app, return the input state unchanged.
//
// Z-order:
//   - Every focus-granting transition takes LastZIndex+1
//   - The counter starts at InitialZIndex and never decreases
//
// Example Usage:
//
//	r := desktop.NewReducer(catalog.MustDefault())
//	s := desktop.NewState(catalog.MustDefault())
//	s = r.Reduce(s, desktop.Open{AppID: "finder"})
//	s = r.Reduce(s, desktop.TileWindows{})
package desktop
