// Package e2e exercises the seed end-to-end scenarios spec.md §8 calls out
// by name (S1-S7), wiring the crypto, protocol, and session-manager layers
// together the way internal/services/message does, without the storage or
// relay plumbing around them.
package e2e_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"wasp/internal/crypto"
	"wasp/internal/domain"
	"wasp/internal/domain/types"
	"wasp/internal/protocol/media"
	"wasp/internal/services/sessionmgr"
)

func makeIdentity(t *testing.T, regID types.RegistrationID) types.Identity {
	t.Helper()
	dhPriv, dhPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	signPriv, signPub, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	return types.Identity{
		RegistrationID: regID,
		SignPub:        signPub,
		SignPriv:       signPriv,
		DHPub:          dhPub,
		DHPriv:         dhPriv,
	}
}

func makeSignedPreKey(t *testing.T, owner types.Identity, id types.KeyID) types.SignedPreKey {
	t.Helper()
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	return types.SignedPreKey{
		ID:        id,
		Pub:       pub,
		Priv:      priv,
		Signature: crypto.SignEd25519(owner.SignPriv, pub.Slice()),
	}
}

func makeOneTimePreKeys(t *testing.T, startID types.KeyID, n int) []types.OneTimePreKey {
	t.Helper()
	out := make([]types.OneTimePreKey, 0, n)
	for i := 0; i < n; i++ {
		priv, pub, err := crypto.GenerateX25519()
		require.NoError(t, err)
		out = append(out, types.OneTimePreKey{ID: startID + types.KeyID(i), Pub: pub, Priv: priv})
	}
	return out
}

// oneTimePreKeyStore is a minimal in-memory stand-in for the opkLookup
// callback domain.SessionManager.DecryptIncoming takes, letting S1 assert
// that the consumed id is gone afterwards without pulling in internal/store.
type oneTimePreKeyStore struct {
	byID map[types.KeyID]types.OneTimePreKey
}

func newOneTimePreKeyStore(keys []types.OneTimePreKey) *oneTimePreKeyStore {
	s := &oneTimePreKeyStore{byID: make(map[types.KeyID]types.OneTimePreKey, len(keys))}
	for _, k := range keys {
		s.byID[k.ID] = k
	}
	return s
}

func (s *oneTimePreKeyStore) consume(id types.KeyID) (types.OneTimePreKey, bool) {
	k, ok := s.byID[id]
	if ok {
		delete(s.byID, id)
	}
	return k, ok
}

// establish runs S1 in miniature so later scenarios can start from a
// working bidirectional session pair without repeating the X3DH setup.
func establish(t *testing.T) (mgr *sessionmgr.Manager, alice, bob types.Identity, aliceSession, bobSession types.Session, bobOPKs *oneTimePreKeyStore, firstEnvelope types.Envelope) {
	t.Helper()
	mgr = sessionmgr.New()

	alice = makeIdentity(t, 1)
	bob = makeIdentity(t, 2)
	bobSPK := makeSignedPreKey(t, bob, 1)
	opks := makeOneTimePreKeys(t, 100, 10)
	bobOPKs = newOneTimePreKeyStore(opks)

	firstOPKPub := opks[0].Public()
	bundle := types.PreKeyBundle{
		UserID:         "bob",
		RegistrationID: bob.RegistrationID,
		IdentityDHKey:  bob.DHPub,
		IdentitySigKey: bob.SignPub,
		SignedPreKey:   bobSPK.Public(),
		OneTimePreKey:  &firstOPKPub,
	}

	pending, err := mgr.CreateOutgoing(alice, bundle)
	require.NoError(t, err)
	require.NotNil(t, pending.Pending.UsedOneTimePreKeyID)
	require.Equal(t, types.KeyID(100), *pending.Pending.UsedOneTimePreKeyID)

	aliceSession, firstEnvelope, err = mgr.EncryptFirst(pending, []byte("Hello, Bob!"))
	require.NoError(t, err)

	opkLookup := func(id types.KeyID) (types.OneTimePreKey, bool) { return bobOPKs.consume(id) }
	bobSession, _, err = mgr.DecryptIncoming(bob, bobSPK, opkLookup, nil, firstEnvelope)
	require.NoError(t, err)
	bobSession.ContactID = "alice"

	return mgr, alice, bob, aliceSession, bobSession, bobOPKs, firstEnvelope
}

func TestS1_SimpleRoundTrip(t *testing.T) {
	mgr := sessionmgr.New()

	alice := makeIdentity(t, 1)
	bob := makeIdentity(t, 2)
	bobSPK := makeSignedPreKey(t, bob, 1)
	opks := makeOneTimePreKeys(t, 100, 10)
	store := newOneTimePreKeyStore(opks)

	firstOPKPub := opks[0].Public()
	bundle := types.PreKeyBundle{
		UserID:         "bob",
		RegistrationID: bob.RegistrationID,
		IdentityDHKey:  bob.DHPub,
		IdentitySigKey: bob.SignPub,
		SignedPreKey:   bobSPK.Public(),
		OneTimePreKey:  &firstOPKPub,
	}

	pending, err := mgr.CreateOutgoing(alice, bundle)
	require.NoError(t, err)

	_, envelope, err := mgr.EncryptFirst(pending, []byte("Hello, Bob!"))
	require.NoError(t, err)

	require.True(t, envelope.IsPreKeyMessage)
	require.NotNil(t, envelope.UsedOneTimePreKeyID)
	require.Equal(t, types.KeyID(100), *envelope.UsedOneTimePreKeyID)
	require.EqualValues(t, 0, envelope.Header.N)
	require.EqualValues(t, 0, envelope.Header.PN)

	opkLookup := func(id types.KeyID) (types.OneTimePreKey, bool) { return store.consume(id) }
	_, decrypted, err := mgr.DecryptIncoming(bob, bobSPK, opkLookup, nil, envelope)
	require.NoError(t, err)
	require.Equal(t, "Hello, Bob!", string(decrypted.Plaintext))

	_, stillThere := store.byID[100]
	require.False(t, stillThere, "used one-time pre-key must be gone from the store")
}

func TestS2_BidirectionalDHRatchet(t *testing.T) {
	mgr, _, _, aliceSession, bobSession, _, _ := establish(t)

	bobDHsPubBeforeReply := bobSession.Ratchet.DHsPub

	bobSession, bobToAlice, err := mgr.Encrypt(bobSession, []byte("Hi Alice"))
	require.NoError(t, err)
	require.False(t, bobToAlice.IsPreKeyMessage)

	aliceSession, decrypted, err := mgr.DecryptIncoming(types.Identity{}, types.SignedPreKey{}, nil, &aliceSession, bobToAlice)
	require.NoError(t, err)
	require.Equal(t, "Hi Alice", string(decrypted.Plaintext))

	require.NotNil(t, aliceSession.Ratchet.DHr)
	require.Equal(t, bobDHsPubBeforeReply, *aliceSession.Ratchet.DHr, "Alice's DHr must equal Bob's previous DHs.pub")

	aliceSession, aliceToBob, err := mgr.Encrypt(aliceSession, []byte("back"))
	require.NoError(t, err)
	require.EqualValues(t, 1, aliceToBob.Header.PN, "Alice's third message carries PN=1")

	_, decrypted, err = mgr.DecryptIncoming(types.Identity{}, types.SignedPreKey{}, nil, &bobSession, aliceToBob)
	require.NoError(t, err)
	require.Equal(t, "back", string(decrypted.Plaintext))
}

func TestS3_OutOfOrderDelivery(t *testing.T) {
	mgr, _, _, aliceSession, bobSession, _, _ := establish(t)

	var m1, m2, m3 types.Envelope
	aliceSession, m1, _ = mgr.Encrypt(aliceSession, []byte("m1"))
	aliceSession, m2, _ = mgr.Encrypt(aliceSession, []byte("m2"))
	aliceSession, m3, _ = mgr.Encrypt(aliceSession, []byte("m3"))
	aliceDHsPub := aliceSession.Ratchet.DHsPub

	bobSession, _, err := mgr.DecryptIncoming(types.Identity{}, types.SignedPreKey{}, nil, &bobSession, m3)
	require.NoError(t, err)
	require.Equal(t, 2, bobSession.Ratchet.Skipped.Len())
	// Counter 0 of Alice's chain carried "Hello, Bob!", so m1..m3 are 1..3.
	_, ok1 := bobSession.Ratchet.Skipped.Get(types.SkippedKeyID{DHPub: aliceDHsPub, Counter: 1})
	_, ok2 := bobSession.Ratchet.Skipped.Get(types.SkippedKeyID{DHPub: aliceDHsPub, Counter: 2})
	require.True(t, ok1)
	require.True(t, ok2)

	var plaintext1, plaintext2 types.DecryptedMessage
	bobSession, plaintext1, err = mgr.DecryptIncoming(types.Identity{}, types.SignedPreKey{}, nil, &bobSession, m1)
	require.NoError(t, err)
	require.Equal(t, "m1", string(plaintext1.Plaintext))

	bobSession, plaintext2, err = mgr.DecryptIncoming(types.Identity{}, types.SignedPreKey{}, nil, &bobSession, m2)
	require.NoError(t, err)
	require.Equal(t, "m2", string(plaintext2.Plaintext))

	require.Equal(t, 0, bobSession.Ratchet.Skipped.Len(), "cache must be empty once the gap is filled")
}

func TestS4_ReplayRejection(t *testing.T) {
	mgr, _, _, _, bobSession, _, firstEnvelope := establish(t)

	before := bobSession
	_, _, err := mgr.DecryptIncoming(types.Identity{}, types.SignedPreKey{}, nil, &bobSession, firstEnvelope)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrAuthFailure)
	require.Equal(t, before, bobSession, "a failed decrypt must leave the session untouched")
}

func TestS5_TamperDetection(t *testing.T) {
	mgr, _, _, aliceSession, bobSession, _, _ := establish(t)

	_, tamperedCiphertext, err := mgr.Encrypt(aliceSession, []byte("tamper me"))
	require.NoError(t, err)
	tamperedCiphertext.Ciphertext = append([]byte(nil), tamperedCiphertext.Ciphertext...)
	tamperedCiphertext.Ciphertext[0] ^= 0x01

	_, _, err = mgr.DecryptIncoming(types.Identity{}, types.SignedPreKey{}, nil, &bobSession, tamperedCiphertext)
	require.ErrorIs(t, err, domain.ErrAuthFailure)

	_, tamperedHeader, err := mgr.Encrypt(aliceSession, []byte("tamper header"))
	require.NoError(t, err)
	tamperedHeader.Header.N ^= 1

	_, _, err = mgr.DecryptIncoming(types.Identity{}, types.SignedPreKey{}, nil, &bobSession, tamperedHeader)
	require.Error(t, err)
	require.True(t, err == domain.ErrAuthFailure || err == domain.ErrTooManySkipped || err == domain.ErrNotInitialized,
		"header tampering must fail closed, got %v", err)
}

func TestS6_BundleSignatureTampering(t *testing.T) {
	mgr := sessionmgr.New()
	alice := makeIdentity(t, 1)
	bob := makeIdentity(t, 2)
	bobSPK := makeSignedPreKey(t, bob, 1)
	bobSPK.Signature = make([]byte, len(bobSPK.Signature))

	bundle := types.PreKeyBundle{
		UserID:         "bob",
		RegistrationID: bob.RegistrationID,
		IdentityDHKey:  bob.DHPub,
		IdentitySigKey: bob.SignPub,
		SignedPreKey:   bobSPK.Public(),
	}

	_, err := mgr.CreateOutgoing(alice, bundle)
	require.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestS7_MediaRoundTrip(t *testing.T) {
	plaintext := make([]byte, 1<<20)
	_, err := rand.Read(plaintext)
	require.NoError(t, err)

	enc, err := media.Encrypt(plaintext)
	require.NoError(t, err)

	got, err := media.Decrypt(enc.Blob, enc.Key, enc.Digest)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)

	tamperedDigest := enc.Digest
	tamperedDigest[len(tamperedDigest)-1] ^= 0xFF
	_, err = media.Decrypt(enc.Blob, enc.Key, tamperedDigest)
	require.ErrorIs(t, err, domain.ErrMediaIntegrity)
}
