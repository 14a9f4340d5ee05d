package interfaces

import (
	"context"

	types "wasp/internal/domain/types"
)

// IdentityService creates, retrieves, and inspects the device identity.
type IdentityService interface {
	GenerateIdentity(passphrase string) (types.Identity, types.Fingerprint, error)
	LoadIdentity(passphrase string) (types.Identity, error)
	FingerprintIdentity(passphrase string) (types.Fingerprint, error)
}

// PreKeyService generates, rotates, and assembles pre-key material.
type PreKeyService interface {
	// GenerateAndStoreSignedPreKey creates a fresh SPK, signs it with the
	// stored identity, and persists it as the current one. The previous SPK
	// is retained in the store; incoming pre-key messages are processed
	// against the current SPK only.
	GenerateAndStoreSignedPreKey(passphrase string) (types.SignedPreKeyPublic, error)
	// GenerateAndStoreOneTimePreKeys creates and persists count fresh OPKs,
	// returning their public halves for upload.
	GenerateAndStoreOneTimePreKeys(passphrase string, count int) ([]types.OneTimePreKeyPublic, error)
	// BuildPreKeyBundle assembles the bundle a peer fetches to initiate a
	// session: the current SPK, the device's identity keys, and (if any
	// remain locally) one OPK, whose private half stays stored until an
	// incoming pre-key message consumes it.
	BuildPreKeyBundle(passphrase string, userID types.ContactID) (types.PreKeyBundle, error)
}

// SessionManager orchestrates X3DH and the Double Ratchet into the
// operations an application actually calls (spec.md §4.5). Every method is
// pure with respect to its Session/PendingSession argument: on error the
// caller's value is still valid and unchanged.
type SessionManager interface {
	// CreateOutgoing runs X3DH send against bundle and initializes the
	// sender ratchet, returning a PendingSession that has not yet produced
	// its first envelope.
	CreateOutgoing(identity types.Identity, bundle types.PreKeyBundle) (types.PendingSession, error)

	// EncryptFirst uses a PendingSession to produce the first envelope of a
	// new session; the returned Session carries no further pending context.
	// The PendingSession value is not invalidated: a second call with the
	// same value seals another envelope with message number 0 under the
	// same message key.
	EncryptFirst(pending types.PendingSession, plaintext []byte) (types.Session, types.Envelope, error)

	// Encrypt runs ratchet encrypt against an already-established session.
	Encrypt(session types.Session, plaintext []byte) (types.Session, types.Envelope, error)

	// DecryptIncoming handles both session-establishing pre-key messages and
	// ordinary ratchet messages. existing is nil when no session is on file
	// for the sender yet. opk is consulted only when envelope.IsPreKeyMessage
	// and existing is nil.
	DecryptIncoming(
		identity types.Identity,
		spk types.SignedPreKey,
		opkLookup func(types.KeyID) (types.OneTimePreKey, bool),
		existing *types.Session,
		envelope types.Envelope,
	) (types.Session, types.DecryptedMessage, error)
}

// MessageService wires SessionManager, the stores, and a RelayClient into
// the send/receive operations the CLI calls.
type MessageService interface {
	SendMessage(ctx context.Context, passphrase string, me, to types.ContactID, plaintext []byte) error
	ReceiveMessages(ctx context.Context, passphrase string, me types.ContactID, limit int) ([]types.DecryptedMessage, error)
}
