package media_test

import (
	"testing"

	"wasp/internal/domain"
	"wasp/internal/protocol/media"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	plaintext := []byte("a photo, pretend")

	enc, err := media.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	got, err := media.Decrypt(enc.Blob, enc.Key, enc.Digest)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(got) != string(plaintext) {
		t.Fatalf("got %q, want %q", got, plaintext)
	}
}

func TestDecrypt_WrongDigestFails(t *testing.T) {
	enc, err := media.Encrypt([]byte("data"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	badDigest := enc.Digest
	badDigest[0] ^= 0xFF

	if _, err := media.Decrypt(enc.Blob, enc.Key, badDigest); err != domain.ErrMediaIntegrity {
		t.Fatalf("want ErrMediaIntegrity, got %v", err)
	}
}

func TestDecrypt_TamperedBlobFails(t *testing.T) {
	enc, err := media.Encrypt([]byte("data"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	tampered := append([]byte(nil), enc.Blob...)
	tampered[len(tampered)-1] ^= 0x01

	if _, err := media.Decrypt(tampered, enc.Key, enc.Digest); err != domain.ErrMediaIntegrity {
		t.Fatalf("want ErrMediaIntegrity, got %v", err)
	}
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	enc, err := media.Encrypt([]byte("data"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	var wrongKey = enc.Key
	wrongKey[0] ^= 0xFF

	if _, err := media.Decrypt(enc.Blob, wrongKey, enc.Digest); err == nil {
		t.Fatal("want error with wrong key")
	}
}
