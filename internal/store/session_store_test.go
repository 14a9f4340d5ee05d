package store_test

import (
	"testing"

	"wasp/internal/crypto"
	"wasp/internal/domain/types"
	"wasp/internal/store"
)

func makeTestSession(t *testing.T) types.Session {
	t.Helper()
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	rk, err := crypto.RandBytes(32)
	if err != nil {
		t.Fatalf("RandBytes: %v", err)
	}
	skipped := types.NewSkippedKeyCache()
	mk, err := crypto.RandBytes(32)
	if err != nil {
		t.Fatalf("RandBytes: %v", err)
	}
	skipped = skipped.WithPut(types.SkippedKeyID{DHPub: pub, Counter: 0}, mk)

	return types.Session{
		ContactID:        "bob",
		PeerRegistration: 42,
		Ratchet: types.RatchetState{
			DHsPub:  pub,
			DHsPriv: priv,
			RK:      rk,
			Ns:      3,
			Nr:      1,
			PN:      2,
			Skipped: skipped,
		},
	}
}

func TestSessionStore_SaveLoad_RoundTrips(t *testing.T) {
	home := t.TempDir()
	s := store.NewSessionFileStore(home)
	pass := "correct horse battery staple"

	want := makeTestSession(t)
	if err := s.SaveSession(pass, want); err != nil {
		t.Fatalf("save session: %v", err)
	}

	got, ok, err := s.LoadSession(pass, "bob")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if !ok {
		t.Fatal("expected session to be found")
	}
	if got.Ratchet.DHsPub != want.Ratchet.DHsPub || got.Ratchet.Ns != want.Ratchet.Ns {
		t.Fatalf("round-tripped session mismatch: got %+v, want %+v", got.Ratchet, want.Ratchet)
	}
	if got.Ratchet.Skipped.Len() != 1 {
		t.Fatalf("skipped-key cache did not round-trip: got %d entries", got.Ratchet.Skipped.Len())
	}
}

func TestSessionStore_WrongPassphrase_Fails(t *testing.T) {
	home := t.TempDir()
	s := store.NewSessionFileStore(home)

	if err := s.SaveSession("correct", makeTestSession(t)); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if _, _, err := s.LoadSession("wrong", "bob"); err == nil {
		t.Fatal("expected error with wrong passphrase")
	}
}

func TestSessionStore_Delete_RemovesEntry(t *testing.T) {
	home := t.TempDir()
	s := store.NewSessionFileStore(home)
	pass := "pass"

	if err := s.SaveSession(pass, makeTestSession(t)); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := s.DeleteSession(pass, "bob"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	_, ok, err := s.LoadSession(pass, "bob")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if ok {
		t.Fatal("expected session to be gone after delete")
	}
}
