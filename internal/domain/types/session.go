package types

// Session is a ratchet state wrapped with the bookkeeping a contact needs:
// which contact it belongs to, the peer's signing identity (bound into
// every AAD per spec.md §4.5), and creation/update timestamps.
type Session struct {
	ContactID        ContactID      `json:"contact_id"`
	OwnSignPub       Ed25519Public  `json:"own_sign_pub"`
	PeerSignPub      Ed25519Public  `json:"peer_sign_pub"`
	PeerRegistration RegistrationID `json:"peer_registration_id"`
	CreatedAtMilli   int64          `json:"created_at"`
	UpdatedAtMilli   int64          `json:"updated_at"`
	Ratchet          RatchetState   `json:"ratchet"`
}

// SendAAD builds the associated data this device must bind into a message
// it is sending: sender_identity_sign_pub ‖ recipient_identity_sign_pub,
// with sender always this device (spec.md §4.4-4.5).
func (s Session) SendAAD() []byte {
	return append(append([]byte{}, s.OwnSignPub[:]...), s.PeerSignPub[:]...)
}

// RecvAAD builds the associated data expected on a message received from
// the peer: sender_identity_sign_pub ‖ recipient_identity_sign_pub, with
// sender always the peer.
func (s Session) RecvAAD() []byte {
	return append(append([]byte{}, s.PeerSignPub[:]...), s.OwnSignPub[:]...)
}

// Clone returns an independent deep copy of the session.
func (s Session) Clone() Session {
	out := s
	out.Ratchet = s.Ratchet.Clone()
	return out
}

// PendingX3DHContext is the ephemeral material a session must still hand
// over in the first envelope it sends: the fresh ephemeral public key from
// X3DH send, and the one-time pre-key id consumed (if any). spec.md's
// REDESIGN FLAGS call out that stashing this in a shared mutable map keyed
// by contact id hides a single-use invariant behind a boolean; PendingSession
// below enforces "produces exactly one first envelope" through the type
// system instead.
type PendingX3DHContext struct {
	SenderIdentityDHKey   X25519Public
	SenderIdentitySignKey Ed25519Public
	SenderEphemeralKey    X25519Public
	UsedOneTimePreKeyID   *KeyID
}

// PendingSession is a freshly created outgoing session that has not yet
// produced its first envelope. The session manager's EncryptFirst converts
// it into a plain Session, whose type carries no pending context, so later
// messages sent from that Session never carry X3DH material. EncryptFirst
// does not invalidate the PendingSession value itself: calling it again
// with the same value yields another first envelope with message number 0.
type PendingSession struct {
	Session Session
	Pending PendingX3DHContext
}
