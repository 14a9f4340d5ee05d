package interfaces

import types "wasp/internal/domain/types"

// IdentityStore persists the device's long-term identity key, encrypted at
// rest under a passphrase-derived key.
type IdentityStore interface {
	SaveIdentity(passphrase string, id types.Identity) error
	LoadIdentity(passphrase string) (types.Identity, error)
}

// PreKeyStore manages signed and one-time pre-keys on disk.
type PreKeyStore interface {
	SaveSignedPreKey(passphrase string, spk types.SignedPreKey) error
	LoadSignedPreKey(passphrase string, id types.KeyID) (types.SignedPreKey, bool, error)
	// CurrentSignedPreKeyID returns the id of the signed pre-key newest in
	// creation order, or ok=false if none has been generated yet.
	CurrentSignedPreKeyID(passphrase string) (types.KeyID, bool, error)
	// ListSignedPreKeys returns every signed pre-key retained locally,
	// including superseded ones.
	ListSignedPreKeys(passphrase string) ([]types.SignedPreKey, error)

	SaveOneTimePreKeys(passphrase string, keys []types.OneTimePreKey) error
	// ConsumeOneTimePreKey loads and permanently deletes the private half of
	// the named one-time pre-key. ok is false if it was never present or was
	// already consumed.
	ConsumeOneTimePreKey(passphrase string, id types.KeyID) (types.OneTimePreKey, bool, error)
	ListOneTimePreKeyPublics(passphrase string) ([]types.OneTimePreKeyPublic, error)
	// NextOneTimePreKeyID returns the next unused id in the 24-bit id space,
	// erroring with domain.ErrExhaustedKeyIDs on overflow.
	NextOneTimePreKeyID(passphrase string) (types.KeyID, error)
	// NextSignedPreKeyID returns the next unused id in the signed pre-key's
	// own 24-bit id space (spec.md §4.2), distinct from the one-time
	// pre-key id space.
	NextSignedPreKeyID(passphrase string) (types.KeyID, error)
}

// PreKeyBundleStore caches pre-key bundles fetched from a relay, so a
// session can be resumed without a network round trip.
type PreKeyBundleStore interface {
	SavePreKeyBundle(serverURL string, bundle types.PreKeyBundle) error
	LoadPreKeyBundle(serverURL string, contact types.ContactID) (types.PreKeyBundle, bool, error)
}

// SessionStore persists established ratchet sessions, one per contact.
type SessionStore interface {
	SaveSession(passphrase string, session types.Session) error
	LoadSession(passphrase string, contact types.ContactID) (types.Session, bool, error)
	DeleteSession(passphrase string, contact types.ContactID) error
}

// PendingSessionStore persists in-flight PendingX3DHContext values so a
// session that has not yet sent its first envelope survives a process
// restart. Entries are removed on first-message consumption; callers are
// responsible for expiring ones that are never consumed (spec.md §5
// recommends 24h).
type PendingSessionStore interface {
	SavePending(passphrase string, contact types.ContactID, pending types.PendingSession) error
	LoadPending(passphrase string, contact types.ContactID) (types.PendingSession, bool, error)
	DeletePending(passphrase string, contact types.ContactID) error
}
