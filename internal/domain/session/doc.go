// Package session owns the live desktop state of the server.
//
// The Store is the single writer of desktop.State. Dispatch applies one
// action at a time under a mutex: the reducer runs to completion, then every
// observer is notified in registration order, and only then is the next
// dispatch admitted. Readers get deep copies.
//
// Observers see only changes. Actions the reducer ignores are counted but
// not broadcast.
//
// Components:
//   - Store: dispatch, snapshot reads, observer registration
//   - Observer: change hook used by persistence and the WebSocket hub
//   - Recorder: optional metrics sink
//
// Example Usage:
//
//	store := session.NewStore(reducer, initial, session.WithLogger(log))
//	store.Subscribe(adapter)
//	next := store.Dispatch(desktop.Open{AppID: "finder"})
package session
