package ratchet_test

import (
	"bytes"
	"testing"

	"wasp/internal/crypto"
	"wasp/internal/domain"
	"wasp/internal/domain/types"
	"wasp/internal/protocol/ratchet"
)

func sharedSecret() []byte {
	return bytes.Repeat([]byte{0x42}, 32)
}

func makeSignedPreKey(t *testing.T) types.SignedPreKey {
	t.Helper()
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	return types.SignedPreKey{ID: 1, Pub: pub, Priv: priv}
}

func TestRoundTrip_OneMessageEachWay(t *testing.T) {
	sk := sharedSecret()
	bobSPK := makeSignedPreKey(t)

	aliceState, err := ratchet.InitSender(sk, bobSPK.Pub)
	if err != nil {
		t.Fatalf("InitSender: %v", err)
	}
	bobState := ratchet.InitReceiver(sk, bobSPK)

	aliceState, header, ct, err := ratchet.Encrypt(aliceState, []byte("hi"), []byte("aad"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	bobState, pt, err := ratchet.Decrypt(bobState, header, ct, []byte("aad"))
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(pt) != "hi" {
		t.Fatalf("got %q, want %q", pt, "hi")
	}

	bobState, header2, ct2, err := ratchet.Encrypt(bobState, []byte("yo"), []byte("aad"))
	if err != nil {
		t.Fatalf("Encrypt (bob): %v", err)
	}
	_, pt2, err := ratchet.Decrypt(aliceState, header2, ct2, []byte("aad"))
	if err != nil {
		t.Fatalf("Decrypt (alice): %v", err)
	}
	if string(pt2) != "yo" {
		t.Fatalf("got %q, want %q", pt2, "yo")
	}
}

func TestOutOfOrderDelivery(t *testing.T) {
	sk := sharedSecret()
	bobSPK := makeSignedPreKey(t)

	aliceState, err := ratchet.InitSender(sk, bobSPK.Pub)
	if err != nil {
		t.Fatalf("InitSender: %v", err)
	}
	bobState := ratchet.InitReceiver(sk, bobSPK)

	var headers [3]types.RatchetHeader
	var cts [3][]byte
	plaintexts := []string{"m1", "m2", "m3"}
	for i, p := range plaintexts {
		var h types.RatchetHeader
		var ct []byte
		aliceState, h, ct, err = ratchet.Encrypt(aliceState, []byte(p), nil)
		if err != nil {
			t.Fatalf("Encrypt %d: %v", i, err)
		}
		headers[i], cts[i] = h, ct
	}

	// Deliver m3, m1, m2.
	order := []int{2, 0, 1}
	for _, i := range order {
		var pt []byte
		bobState, pt, err = ratchet.Decrypt(bobState, headers[i], cts[i], nil)
		if err != nil {
			t.Fatalf("Decrypt %d: %v", i, err)
		}
		if string(pt) != plaintexts[i] {
			t.Fatalf("message %d: got %q, want %q", i, pt, plaintexts[i])
		}
	}

	if bobState.Skipped.Len() != 0 {
		t.Fatalf("want empty skipped cache after full delivery, got %d entries", bobState.Skipped.Len())
	}
}

func TestReplayFails(t *testing.T) {
	sk := sharedSecret()
	bobSPK := makeSignedPreKey(t)

	aliceState, err := ratchet.InitSender(sk, bobSPK.Pub)
	if err != nil {
		t.Fatalf("InitSender: %v", err)
	}
	bobState := ratchet.InitReceiver(sk, bobSPK)

	_, header, ct, err := ratchet.Encrypt(aliceState, []byte("hi"), nil)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	bobState, _, err = ratchet.Decrypt(bobState, header, ct, nil)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}

	if _, _, err := ratchet.Decrypt(bobState, header, ct, nil); err != domain.ErrAuthFailure {
		t.Fatalf("want ErrAuthFailure on replay, got %v", err)
	}
}

func TestTamperedCiphertextFailsAuth(t *testing.T) {
	sk := sharedSecret()
	bobSPK := makeSignedPreKey(t)

	aliceState, err := ratchet.InitSender(sk, bobSPK.Pub)
	if err != nil {
		t.Fatalf("InitSender: %v", err)
	}
	bobState := ratchet.InitReceiver(sk, bobSPK)

	_, header, ct, err := ratchet.Encrypt(aliceState, []byte("hi"), nil)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	tampered := append([]byte(nil), ct...)
	tampered[0] ^= 0x01

	if _, _, err := ratchet.Decrypt(bobState, header, tampered, nil); err != domain.ErrAuthFailure {
		t.Fatalf("want ErrAuthFailure, got %v", err)
	}
}

func TestEncryptBeforeInitFails(t *testing.T) {
	bobSPK := makeSignedPreKey(t)
	bobState := ratchet.InitReceiver(sharedSecret(), bobSPK)

	if _, _, _, err := ratchet.Encrypt(bobState, []byte("hi"), nil); err != domain.ErrNotInitialized {
		t.Fatalf("want ErrNotInitialized, got %v", err)
	}
}

func TestTooManySkippedFails(t *testing.T) {
	sk := sharedSecret()
	bobSPK := makeSignedPreKey(t)

	aliceState, err := ratchet.InitSender(sk, bobSPK.Pub)
	if err != nil {
		t.Fatalf("InitSender: %v", err)
	}
	bobState := ratchet.InitReceiver(sk, bobSPK)

	var lastHeader types.RatchetHeader
	var lastCT []byte
	for i := 0; i < types.MaxSkip+2; i++ {
		aliceState, lastHeader, lastCT, err = ratchet.Encrypt(aliceState, []byte("x"), nil)
		if err != nil {
			t.Fatalf("Encrypt %d: %v", i, err)
		}
	}

	before := bobState
	if _, _, err := ratchet.Decrypt(bobState, lastHeader, lastCT, nil); err != domain.ErrTooManySkipped {
		t.Fatalf("want ErrTooManySkipped, got %v", err)
	}
	if bobState.Ns != before.Ns || bobState.Nr != before.Nr {
		t.Fatal("state must be unchanged after a failed decrypt")
	}
}
