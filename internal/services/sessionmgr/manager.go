package sessionmgr

import (
	"time"

	"wasp/internal/domain"
	"wasp/internal/domain/types"
	"wasp/internal/protocol/ratchet"
	"wasp/internal/protocol/x3dh"
)

// Manager implements domain.SessionManager atop the x3dh and ratchet
// protocol packages. It is stateless: every call takes the caller's
// current Session/PendingSession value and returns the next one.
type Manager struct{}

// New returns a session manager.
func New() *Manager { return &Manager{} }

// CreateOutgoing runs X3DH as the initiator against bundle and seeds the
// sender side of the Double Ratchet (spec.md §4.3-4.4), returning a
// PendingSession that has not yet produced its first envelope.
func (m *Manager) CreateOutgoing(identity types.Identity, bundle types.PreKeyBundle) (types.PendingSession, error) {
	result, err := x3dh.Send(identity, bundle)
	if err != nil {
		return types.PendingSession{}, err
	}

	ratchetState, err := ratchet.InitSender(result.SK, bundle.SignedPreKey.Pub)
	if err != nil {
		return types.PendingSession{}, err
	}

	now := time.Now().UnixMilli()
	session := types.Session{
		ContactID:        bundle.UserID,
		OwnSignPub:       identity.SignPub,
		PeerSignPub:      bundle.IdentitySigKey,
		PeerRegistration: bundle.RegistrationID,
		CreatedAtMilli:   now,
		UpdatedAtMilli:   now,
		Ratchet:          ratchetState,
	}

	return types.PendingSession{
		Session: session,
		Pending: types.PendingX3DHContext{
			SenderIdentityDHKey:   identity.DHPub,
			SenderIdentitySignKey: identity.SignPub,
			SenderEphemeralKey:    result.EphemeralPub,
			UsedOneTimePreKeyID:   result.UsedOneTimePreKeyID,
		},
	}, nil
}

// EncryptFirst consumes pending to seal plaintext as the first envelope of
// a new session, attaching the X3DH material the receiver needs to
// establish its own side (spec.md §4.5, "Alice's first message").
func (m *Manager) EncryptFirst(pending types.PendingSession, plaintext []byte) (types.Session, types.Envelope, error) {
	nextRatchet, header, ciphertext, err := ratchet.Encrypt(pending.Session.Ratchet, plaintext, pending.Session.SendAAD())
	if err != nil {
		return pending.Session, types.Envelope{}, err
	}

	next := pending.Session
	next.Ratchet = nextRatchet
	next.UpdatedAtMilli = time.Now().UnixMilli()

	senderIdentityDH := pending.Pending.SenderIdentityDHKey
	senderEphemeral := pending.Pending.SenderEphemeralKey
	senderSign := pending.Pending.SenderIdentitySignKey

	envelope := types.Envelope{
		IsPreKeyMessage:       true,
		Header:                header,
		Ciphertext:            ciphertext,
		MessageType:           types.MessageTypeText,
		RegistrationID:        next.PeerRegistration,
		SenderIdentityDHKey:   &senderIdentityDH,
		SenderEphemeralKey:    &senderEphemeral,
		SenderIdentitySignKey: &senderSign,
		UsedOneTimePreKeyID:   pending.Pending.UsedOneTimePreKeyID,
	}
	return next, envelope, nil
}

// Encrypt seals plaintext against an already-established session.
func (m *Manager) Encrypt(session types.Session, plaintext []byte) (types.Session, types.Envelope, error) {
	nextRatchet, header, ciphertext, err := ratchet.Encrypt(session.Ratchet, plaintext, session.SendAAD())
	if err != nil {
		return session, types.Envelope{}, err
	}

	next := session
	next.Ratchet = nextRatchet
	next.UpdatedAtMilli = time.Now().UnixMilli()

	envelope := types.Envelope{
		IsPreKeyMessage: false,
		Header:          header,
		Ciphertext:      ciphertext,
		MessageType:     types.MessageTypeText,
		RegistrationID:  next.PeerRegistration,
	}
	return next, envelope, nil
}

// DecryptIncoming opens envelope, establishing a new session first if it
// carries X3DH material and none is on file yet (spec.md §4.5, "Bob's
// first decrypt"). opkLookup is consulted, and its result treated as
// consumed by the caller, only when envelope.IsPreKeyMessage and existing
// is nil.
func (m *Manager) DecryptIncoming(
	identity types.Identity,
	spk types.SignedPreKey,
	opkLookup func(types.KeyID) (types.OneTimePreKey, bool),
	existing *types.Session,
	envelope types.Envelope,
) (types.Session, types.DecryptedMessage, error) {
	session := existing

	if session == nil {
		if !envelope.IsPreKeyMessage || envelope.SenderIdentityDHKey == nil ||
			envelope.SenderEphemeralKey == nil || envelope.SenderIdentitySignKey == nil {
			return types.Session{}, types.DecryptedMessage{}, domain.ErrNotInitialized
		}

		var opk *types.OneTimePreKey
		if envelope.UsedOneTimePreKeyID != nil {
			k, ok := opkLookup(*envelope.UsedOneTimePreKeyID)
			if !ok {
				return types.Session{}, types.DecryptedMessage{}, domain.ErrAuthFailure
			}
			opk = &k
		}

		sk, err := x3dh.Receive(x3dh.ReceiveParams{
			Identity:            identity,
			SPK:                 spk,
			OPK:                 opk,
			SenderIdentityDHPub: *envelope.SenderIdentityDHKey,
			SenderEphemeralPub:  *envelope.SenderEphemeralKey,
		})
		if err != nil {
			return types.Session{}, types.DecryptedMessage{}, err
		}

		now := time.Now().UnixMilli()
		fresh := types.Session{
			OwnSignPub:       identity.SignPub,
			PeerSignPub:      *envelope.SenderIdentitySignKey,
			PeerRegistration: envelope.RegistrationID,
			CreatedAtMilli:   now,
			UpdatedAtMilli:   now,
			Ratchet:          ratchet.InitReceiver(sk, spk),
		}
		// ContactID is left zero-valued: this layer is never told which
		// relay account handed it the envelope, only the envelope itself.
		// The caller (which did fetch it from that account) fills it in
		// before persisting the returned Session.
		session = &fresh
	} else if envelope.RegistrationID != session.PeerRegistration {
		// The peer is presenting a different registration id than the one
		// tied to this contact's stored identity: either they reinstalled
		// and regenerated their identity, or something is trying to splice
		// in a different party under the same contact id (spec.md §4.5).
		// The caller's policy decides whether to reset the session; we only
		// refuse to silently keep ratcheting against it.
		return *session, types.DecryptedMessage{}, domain.ErrSessionConflict
	}

	nextRatchet, plaintext, err := ratchet.Decrypt(session.Ratchet, envelope.Header, envelope.Ciphertext, session.RecvAAD())
	if err != nil {
		return *session, types.DecryptedMessage{}, err
	}

	next := *session
	next.Ratchet = nextRatchet
	next.UpdatedAtMilli = time.Now().UnixMilli()

	return next, types.DecryptedMessage{
		Plaintext: plaintext,
		Timestamp: next.UpdatedAtMilli,
	}, nil
}

// Compile-time assertion that Manager implements domain.SessionManager.
var _ domain.SessionManager = (*Manager)(nil)
