// Package store provides file-based persistence for wasp's identity,
// pre-key, and session state.
//
// The identity, pre-key, session and pending-session stores encrypt their
// files at rest under a passphrase-derived key (see crypto_envelope.go):
// scrypt derives a key per file, and the same AES-256-GCM primitive the
// protocol core uses seals the JSON payload. The account-profile and
// pre-key-bundle stores hold public data and write plain JSON.
// Writes go through a temp-file-then-rename so a crash mid-write never
// corrupts the previous good copy. All methods are safe for concurrent use
// via an internal mutex. Stored files live under the caller-supplied home
// directory.
package store
