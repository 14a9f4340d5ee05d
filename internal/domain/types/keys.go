package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// X25519Public is a Curve25519 public key.
type X25519Public [32]byte

// Slice returns the key as a []byte.
func (p X25519Public) Slice() []byte { return p[:] }

// MarshalJSON encodes the key as lowercase hex, per spec.md §4.2.
func (p X25519Public) MarshalJSON() ([]byte, error) { return marshalHex(p[:]) }

// UnmarshalJSON decodes a lowercase-hex key.
func (p *X25519Public) UnmarshalJSON(data []byte) error { return unmarshalHex(data, p[:]) }

// X25519Private is a Curve25519 private key.
type X25519Private [32]byte

// Slice returns the key as a []byte.
func (k X25519Private) Slice() []byte { return k[:] }

// MarshalJSON encodes the key as lowercase hex, per spec.md §4.2.
func (k X25519Private) MarshalJSON() ([]byte, error) { return marshalHex(k[:]) }

// UnmarshalJSON decodes a lowercase-hex key.
func (k *X25519Private) UnmarshalJSON(data []byte) error { return unmarshalHex(data, k[:]) }

// Ed25519Public is an Ed25519 signing public key.
type Ed25519Public [32]byte

// Slice returns the key as a []byte.
func (p Ed25519Public) Slice() []byte { return p[:] }

// MarshalJSON encodes the key as lowercase hex, per spec.md §4.2.
func (p Ed25519Public) MarshalJSON() ([]byte, error) { return marshalHex(p[:]) }

// UnmarshalJSON decodes a lowercase-hex key.
func (p *Ed25519Public) UnmarshalJSON(data []byte) error { return unmarshalHex(data, p[:]) }

// Ed25519Private is an Ed25519 signing private key (seed‖pub layout, matching
// crypto/ed25519.PrivateKey).
type Ed25519Private [64]byte

// Slice returns the key as a []byte.
func (k Ed25519Private) Slice() []byte { return k[:] }

// MarshalJSON encodes the key as lowercase hex, per spec.md §4.2.
func (k Ed25519Private) MarshalJSON() ([]byte, error) { return marshalHex(k[:]) }

// UnmarshalJSON decodes a lowercase-hex key.
func (k *Ed25519Private) UnmarshalJSON(data []byte) error { return unmarshalHex(data, k[:]) }

// MustX25519Public panics unless b is exactly 32 bytes. Intended for trusted
// call sites (tests, primitives that already validated length); never for
// untrusted wire input.
func MustX25519Public(b []byte) X25519Public {
	if len(b) != 32 {
		panic(fmt.Errorf("types: X25519 public key: want 32 bytes, got %d", len(b)))
	}
	var out X25519Public
	copy(out[:], b)
	return out
}

// MustX25519Private panics unless b is exactly 32 bytes.
func MustX25519Private(b []byte) X25519Private {
	if len(b) != 32 {
		panic(fmt.Errorf("types: X25519 private key: want 32 bytes, got %d", len(b)))
	}
	var out X25519Private
	copy(out[:], b)
	return out
}

// MustEd25519Public panics unless b is exactly 32 bytes.
func MustEd25519Public(b []byte) Ed25519Public {
	if len(b) != 32 {
		panic(fmt.Errorf("types: Ed25519 public key: want 32 bytes, got %d", len(b)))
	}
	var out Ed25519Public
	copy(out[:], b)
	return out
}

// MustEd25519Private panics unless b is exactly 64 bytes.
func MustEd25519Private(b []byte) Ed25519Private {
	if len(b) != 64 {
		panic(fmt.Errorf("types: Ed25519 private key: want 64 bytes, got %d", len(b)))
	}
	var out Ed25519Private
	copy(out[:], b)
	return out
}

func marshalHex(b []byte) ([]byte, error) {
	return json.Marshal(hex.EncodeToString(b))
}

func unmarshalHex(data []byte, dst []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("types: decoding hex key: %w", err)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("types: decoding hex key: %w", err)
	}
	if len(b) != len(dst) {
		return fmt.Errorf("types: hex key has %d bytes, want %d", len(b), len(dst))
	}
	copy(dst, b)
	return nil
}
