// Package types holds the wire and storage shapes shared across wasp's
// protocol and service packages. Every shape here is a tagged record with
// enumerated fields — no loosely-typed maps — so a malformed or unexpected
// field is a decode error (ErrParseError) rather than silently ignored.
package types

// ContactID names a conversation partner from the local device's point of
// view. The relay and transport layers are free to use a different
// identifier scheme; wasp only needs a stable key to file sessions under.
type ContactID string

// String returns the string form of the contact id.
func (c ContactID) String() string { return string(c) }

// RegistrationID is the 14-bit integer (range 1..16380) a device presents so
// peers can detect session re-initialisation (spec.md §3, §4.5).
type RegistrationID uint16

// KeyID identifies a signed or one-time pre-key. The id space is 24 bits
// (spec.md §4.2); wrap is rejected with ErrExhaustedKeyIDs.
type KeyID uint32

// Fingerprint is a short, display-safe identifier for a public key.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }
