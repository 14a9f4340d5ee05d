package types

// SignedPreKey is the medium-term X25519 pair rotated periodically (at
// least weekly in production). Signature is an Ed25519 signature, computed
// by the identity signing key, over the raw 32-byte public half.
type SignedPreKey struct {
	ID             KeyID         `json:"id"`
	Pub            X25519Public  `json:"pub"`
	Priv           X25519Private `json:"priv"`
	Signature      []byte        `json:"signature"`
	CreatedAtMilli int64         `json:"created_at"`
}

// Public strips a SignedPreKey to the half published in a pre-key bundle.
func (s SignedPreKey) Public() SignedPreKeyPublic {
	return SignedPreKeyPublic{ID: s.ID, Pub: s.Pub, Signature: s.Signature}
}

// SignedPreKeyPublic is the wire/bundle form of a SignedPreKey: no private
// half.
type SignedPreKeyPublic struct {
	ID        KeyID        `json:"id"`
	Pub       X25519Public `json:"pub"`
	Signature []byte       `json:"signature"`
}

// OneTimePreKey is a single-use X25519 pair. The server side only ever
// holds the public half; the private half must be destroyed by the holder
// immediately after it is consumed in one X3DH receive (spec.md §3).
type OneTimePreKey struct {
	ID   KeyID         `json:"id"`
	Pub  X25519Public  `json:"pub"`
	Priv X25519Private `json:"priv"`
}

// Public strips an OneTimePreKey to its bundle form.
func (o OneTimePreKey) Public() OneTimePreKeyPublic {
	return OneTimePreKeyPublic{ID: o.ID, Pub: o.Pub}
}

// OneTimePreKeyPublic is the wire/bundle form of an OneTimePreKey.
type OneTimePreKeyPublic struct {
	ID  KeyID        `json:"id"`
	Pub X25519Public `json:"pub"`
}

// PreKeyBundle is the payload fetched from the relay to initiate a session
// with a contact (spec.md §3, "Recipient Pre-Key Bundle").
type PreKeyBundle struct {
	UserID         ContactID            `json:"user_id"`
	RegistrationID RegistrationID       `json:"registration_id"`
	IdentityDHKey  X25519Public         `json:"identity_dh_key"`
	IdentitySigKey Ed25519Public        `json:"identity_sign_key"`
	SignedPreKey   SignedPreKeyPublic   `json:"signed_pre_key"`
	OneTimePreKey  *OneTimePreKeyPublic `json:"one_time_pre_key,omitempty"`
}
