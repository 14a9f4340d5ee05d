package domain

import "errors"

// Sentinel errors surfaced by the protocol core (spec.md §7). Callers use
// errors.Is against these; the core never panics or uses exceptions for
// control flow.
var (
	// ErrInvalidSignature: a pre-key bundle's SPK signature failed
	// verification. Session creation is aborted.
	ErrInvalidSignature = errors.New("wasp: invalid signed pre-key signature")

	// ErrAuthFailure: an AEAD tag mismatch on a message or media blob. The
	// caller discards the message; session state is left unchanged.
	ErrAuthFailure = errors.New("wasp: authentication failure")

	// ErrNotInitialized: encrypt was called before a sending chain exists.
	ErrNotInitialized = errors.New("wasp: ratchet has no sending chain")

	// ErrTooManySkipped: the gap between the incoming counter and the
	// current receive counter exceeds MaxSkip.
	ErrTooManySkipped = errors.New("wasp: too many skipped messages")

	// ErrSessionConflict: the envelope's registration id does not match the
	// one recorded for the stored contact identity.
	ErrSessionConflict = errors.New("wasp: session registration id conflict")

	// ErrMediaIntegrity: a media blob's digest or truncated MAC did not
	// verify.
	ErrMediaIntegrity = errors.New("wasp: media integrity check failed")

	// ErrParseError: a malformed envelope or serialized session/state.
	ErrParseError = errors.New("wasp: parse error")

	// ErrExhaustedKeyIDs: a pre-key id counter would overflow its 24-bit
	// space.
	ErrExhaustedKeyIDs = errors.New("wasp: pre-key id space exhausted")
)
