// Package ws serves /stream, the live view of the desktop session.
//
// A client receives the current state on connect, then one "state" message
// per applied action in sequence order. Clients may send action envelopes
// in the same format as POST /desktop/actions, and {"type":"ping"}.
package ws
