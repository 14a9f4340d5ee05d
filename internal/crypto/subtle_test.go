package crypto_test

import (
	"testing"

	"wasp/internal/crypto"
)

func TestCtEq_Equal(t *testing.T) {
	a := []byte("the quick brown fox")
	b := []byte("the quick brown fox")
	if !crypto.CtEq(a, b) {
		t.Fatal("expected equal byte slices to compare equal")
	}
}

func TestCtEq_DifferentContentSameLength(t *testing.T) {
	a := []byte("the quick brown fox")
	b := []byte("the quick brown box")
	if crypto.CtEq(a, b) {
		t.Fatal("expected differing byte slices to compare unequal")
	}
}

func TestCtEq_DifferentLength(t *testing.T) {
	a := []byte("short")
	b := []byte("a much longer string")
	if crypto.CtEq(a, b) {
		t.Fatal("expected length mismatch to compare unequal")
	}
}

func TestCtEq_EmptySlices(t *testing.T) {
	if !crypto.CtEq(nil, []byte{}) {
		t.Fatal("expected two empty slices to compare equal")
	}
}
