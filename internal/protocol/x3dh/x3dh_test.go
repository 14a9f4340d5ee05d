package x3dh_test

import (
	"bytes"
	"testing"

	"wasp/internal/crypto"
	"wasp/internal/domain"
	"wasp/internal/domain/types"
	"wasp/internal/protocol/x3dh"
)

func makeIdentity(t *testing.T) types.Identity {
	t.Helper()
	dhPriv, dhPub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	signPriv, signPub, err := crypto.GenerateEd25519()
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	return types.Identity{
		RegistrationID: 42,
		SignPub:        signPub,
		SignPriv:       signPriv,
		DHPub:          dhPub,
		DHPriv:         dhPriv,
	}
}

func makeSignedPreKey(t *testing.T, identity types.Identity, id types.KeyID) types.SignedPreKey {
	t.Helper()
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	sig := crypto.SignEd25519(identity.SignPriv, pub.Slice())
	return types.SignedPreKey{ID: id, Pub: pub, Priv: priv, Signature: sig}
}

func TestSendReceive_NoOneTimePreKey(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	bobSPK := makeSignedPreKey(t, bob, 1)

	bundle := types.PreKeyBundle{
		UserID:         "bob",
		RegistrationID: bob.RegistrationID,
		IdentityDHKey:  bob.DHPub,
		IdentitySigKey: bob.SignPub,
		SignedPreKey:   bobSPK.Public(),
	}

	sendResult, err := x3dh.Send(alice, bundle)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sendResult.UsedOneTimePreKeyID != nil {
		t.Fatalf("unexpected used one-time pre-key id %v", *sendResult.UsedOneTimePreKeyID)
	}

	sk, err := x3dh.Receive(x3dh.ReceiveParams{
		Identity:            bob,
		SPK:                 bobSPK,
		SenderIdentityDHPub: alice.DHPub,
		SenderEphemeralPub:  sendResult.EphemeralPub,
	})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}

	if !bytes.Equal(sendResult.SK, sk) {
		t.Fatal("sender and receiver derived different master secrets")
	}
}

func TestSendReceive_WithOneTimePreKey(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	bobSPK := makeSignedPreKey(t, bob, 1)

	opkPriv, opkPub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	opk := types.OneTimePreKey{ID: 7, Pub: opkPub, Priv: opkPriv}
	opkPublic := opk.Public()

	bundle := types.PreKeyBundle{
		UserID:         "bob",
		RegistrationID: bob.RegistrationID,
		IdentityDHKey:  bob.DHPub,
		IdentitySigKey: bob.SignPub,
		SignedPreKey:   bobSPK.Public(),
		OneTimePreKey:  &opkPublic,
	}

	sendResult, err := x3dh.Send(alice, bundle)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sendResult.UsedOneTimePreKeyID == nil || *sendResult.UsedOneTimePreKeyID != opk.ID {
		t.Fatalf("want used one-time pre-key id %d, got %v", opk.ID, sendResult.UsedOneTimePreKeyID)
	}

	sk, err := x3dh.Receive(x3dh.ReceiveParams{
		Identity:            bob,
		SPK:                 bobSPK,
		OPK:                 &opk,
		SenderIdentityDHPub: alice.DHPub,
		SenderEphemeralPub:  sendResult.EphemeralPub,
	})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}

	if !bytes.Equal(sendResult.SK, sk) {
		t.Fatal("sender and receiver derived different master secrets")
	}
}

func TestSend_RejectsBadSignature(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	bobSPK := makeSignedPreKey(t, bob, 1)
	bobSPK.Signature[0] ^= 0xFF

	bundle := types.PreKeyBundle{
		UserID:         "bob",
		RegistrationID: bob.RegistrationID,
		IdentityDHKey:  bob.DHPub,
		IdentitySigKey: bob.SignPub,
		SignedPreKey:   bobSPK.Public(),
	}

	if _, err := x3dh.Send(alice, bundle); err != domain.ErrInvalidSignature {
		t.Fatalf("want ErrInvalidSignature, got %v", err)
	}
}
