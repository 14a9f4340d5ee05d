// Package ratchet implements the Double Ratchet algorithm: a root key plus
// two symmetric KDF chains (send/receive) layered over a DH ratchet that
// advances whenever a peer's ratchet public key changes.
//
// Every exported function is pure with respect to the types.RatchetState it
// is given: Encrypt and Decrypt return a new state rather than mutating the
// one passed in, and a failed call returns the original, untouched state
// alongside its error. This gives atomicity for free (spec.md §5) — a
// caller that gets an error can keep using its old state exactly as if the
// call had never happened.
package ratchet
