package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// Seal encrypts plaintext with AES-256-GCM under key (32 bytes) and iv (12
// bytes), binding aad, and returns ciphertext‖tag. spec.md §4.1 mandates
// AES-256-GCM specifically, so this wraps the standard library's
// implementation.
func Seal(key, iv, plaintext, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != gcm.NonceSize() {
		return nil, fmt.Errorf("crypto: aes-gcm iv must be %d bytes, got %d", gcm.NonceSize(), len(iv))
	}
	return gcm.Seal(nil, iv, plaintext, aad), nil
}

// Open decrypts and verifies a Seal output. It fails closed: on tag
// mismatch it returns an error and no plaintext bytes, satisfying the
// AuthFailure requirement that plaintext never leaks before the tag is
// checked.
func Open(key, iv, ciphertext, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != gcm.NonceSize() {
		return nil, fmt.Errorf("crypto: aes-gcm iv must be %d bytes, got %d", gcm.NonceSize(), len(iv))
	}
	return gcm.Open(nil, iv, ciphertext, aad)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
