// Package sessionmgr wires X3DH and the Double Ratchet into the four
// operations callers actually need: start an outgoing session, seal its
// first envelope, seal subsequent envelopes, and open whatever arrives
// (spec.md §4.5). It holds no storage of its own; every method takes the
// caller's current state and returns the next state, leaving persistence
// to the store packages.
package sessionmgr
