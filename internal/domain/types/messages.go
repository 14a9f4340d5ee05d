package types

// MessageType hints at payload content without revealing it (spec.md §6.3).
// It is carried in the clear on every envelope, so it must never encode
// anything sensitive.
type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeMedia  MessageType = "media"
	MessageTypeSystem MessageType = "system"
)

// Envelope is the on-wire form posted to and fetched from the relay
// (spec.md §6.3). The relay only ever handles this shape; it never sees
// plaintext or ratchet state.
type Envelope struct {
	// MessageID is assigned by the relay when it accepts an envelope
	// (spec.md §6.4: "trusted only to eventually deliver"). It has no
	// cryptographic role — the ratchet counters are what actually detect
	// replay. The relay assigns a fresh id on every post, so a retried post
	// gets a new one, and envelopes are acknowledged by count, not by id.
	MessageID string `json:"message_id,omitempty"`

	// From is the sending account, set by the client when posting and
	// delivered unchanged by the relay, since the Double Ratchet payload
	// itself carries no sender identity once a session is established.
	From            ContactID      `json:"from"`
	IsPreKeyMessage bool           `json:"is_pre_key_message"`
	Header          RatchetHeader  `json:"header"`
	Ciphertext      []byte         `json:"ciphertext"`
	MessageType     MessageType    `json:"message_type"`
	RegistrationID  RegistrationID `json:"registration_id"`

	// Present only when IsPreKeyMessage is true.
	SenderIdentityDHKey   *X25519Public  `json:"sender_identity_dh_key,omitempty"`
	SenderEphemeralKey    *X25519Public  `json:"sender_ephemeral_key,omitempty"`
	SenderIdentitySignKey *Ed25519Public `json:"sender_identity_sign_key,omitempty"`
	UsedOneTimePreKeyID   *KeyID         `json:"used_one_time_prekey_id,omitempty"`
}

// DecryptedMessage is what the session manager hands back to the
// application after a successful decrypt.
type DecryptedMessage struct {
	From      ContactID `json:"from"`
	Plaintext []byte    `json:"plaintext"`
	Timestamp int64     `json:"timestamp"`
}
