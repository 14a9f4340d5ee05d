package types

// MediaKey is the 64-byte per-file key that seeds KDF_Media (spec.md §4.6).
// It never goes over the wire in the clear; it is carried encrypted inside
// a ratcheted message payload, which is why it has no JSON hex codec of its
// own — unlike the session's asymmetric keys, it is never persisted
// standalone.
type MediaKey [64]byte

// Slice returns the key as a []byte.
func (k MediaKey) Slice() []byte { return k[:] }

// EncryptedMedia is the result of encrypt_media: the self-describing blob
// (iv‖ciphertext‖mac10) plus the digest that must be checked before any of
// the blob is trusted.
type EncryptedMedia struct {
	Blob   []byte   `json:"blob"`
	Digest [32]byte `json:"digest"`
	Key    MediaKey `json:"-"`
}
