package media

import (
	"crypto/sha256"

	"wasp/internal/crypto"
	"wasp/internal/domain"
	"wasp/internal/domain/types"
)

// Encrypt seals plaintext under a fresh 64-byte media key, following
// spec.md §4.6 exactly: the AEAD uses only the first 12 of the 16 expanded
// IV bytes, the MAC is truncated to 10 bytes per the Signal/WhatsApp media
// convention, and the whole blob is digested so a single SHA-256 check can
// catch corruption before the caller even looks at the MAC.
func Encrypt(plaintext []byte) (types.EncryptedMedia, error) {
	keyBytes, err := crypto.RandBytes(64)
	if err != nil {
		return types.EncryptedMedia{}, err
	}
	var key types.MediaKey
	copy(key[:], keyBytes)

	iv, cipherKey, macKey, err := crypto.KDFMedia(key.Slice())
	if err != nil {
		return types.EncryptedMedia{}, err
	}

	ct, err := crypto.Seal(cipherKey, iv[:12], plaintext, nil)
	if err != nil {
		return types.EncryptedMedia{}, err
	}

	ivAndCT := append(append([]byte(nil), iv...), ct...)
	mac := crypto.HMAC(macKey, ivAndCT)[:10]
	blob := append(ivAndCT, mac...)
	digest := sha256.Sum256(blob)

	return types.EncryptedMedia{Blob: blob, Digest: digest, Key: key}, nil
}

// Decrypt verifies digest, then the truncated MAC, and only then opens the
// AEAD — in that order, so a corrupted or tampered blob never reaches the
// AES-GCM step (spec.md §4.6).
func Decrypt(blob []byte, key types.MediaKey, expectedDigest [32]byte) ([]byte, error) {
	const ivLen, macLen = 16, 10
	if len(blob) < ivLen+macLen {
		return nil, domain.ErrParseError
	}

	digest := sha256.Sum256(blob)
	if !crypto.CtEq(digest[:], expectedDigest[:]) {
		return nil, domain.ErrMediaIntegrity
	}

	iv, cipherKey, macKey, err := crypto.KDFMedia(key.Slice())
	if err != nil {
		return nil, err
	}

	macStart := len(blob) - macLen
	ivAndCT := blob[:macStart]
	gotMAC := blob[macStart:]
	wantMAC := crypto.HMAC(macKey, ivAndCT)[:macLen]
	if !crypto.CtEq(gotMAC, wantMAC) {
		return nil, domain.ErrMediaIntegrity
	}

	ct := blob[ivLen:macStart]
	pt, err := crypto.Open(cipherKey, iv[:12], ct, nil)
	if err != nil {
		return nil, domain.ErrMediaIntegrity
	}
	return pt, nil
}
