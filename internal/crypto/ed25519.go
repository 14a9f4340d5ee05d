package crypto

import (
	"crypto/ed25519"
	"crypto/rand"

	"wasp/internal/domain/types"
)

// GenerateEd25519 returns a new Ed25519 signing key pair.
func GenerateEd25519() (priv types.Ed25519Private, pub types.Ed25519Public, err error) {
	pk, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return priv, pub, err
	}
	copy(priv[:], sk)
	copy(pub[:], pk)
	return priv, pub, nil
}

// SignEd25519 signs msg with priv and returns the 64-byte signature.
func SignEd25519(priv types.Ed25519Private, msg []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(priv[:]), msg)
}

// VerifyEd25519 verifies sig over msg with pub. Verification does not leak
// timing information about which byte of sig first diverged (spec.md §4.1);
// ed25519.Verify's internal comparisons are already constant-time in the
// signature material.
func VerifyEd25519(pub types.Ed25519Public, msg, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig)
}
