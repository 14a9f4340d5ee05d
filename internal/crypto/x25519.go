package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/curve25519"

	"wasp/internal/domain/types"
)

// GenerateX25519 returns a fresh Curve25519 key pair. The private key is
// clamped per RFC 7748.
func GenerateX25519() (priv types.X25519Private, pub types.X25519Public, err error) {
	if _, err = rand.Read(priv[:]); err != nil {
		return
	}
	clamp(&priv)
	pb, err := curve25519.X25519(priv.Slice(), curve25519.Basepoint)
	if err != nil {
		return
	}
	copy(pub[:], pb)
	return
}

// DH computes the X25519 Diffie-Hellman shared secret. Per spec.md §4.1 /
// RFC 7748, an all-zero output is accepted rather than rejected: the caller
// policy here does not demand the contributory-input check, matching the
// default behavior described by the spec.
func DH(priv types.X25519Private, pub types.X25519Public) ([32]byte, error) {
	var out [32]byte
	secret, err := curve25519.X25519(priv.Slice(), pub.Slice())
	if err != nil {
		return out, err
	}
	copy(out[:], secret)
	return out, nil
}

func clamp(k *types.X25519Private) {
	kb := k[:]
	kb[0] &= 248
	kb[31] &= 127
	kb[31] |= 64
}
