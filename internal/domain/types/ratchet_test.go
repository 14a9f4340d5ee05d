package types_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"wasp/internal/domain/types"
)

func TestSkippedKeyCache_FIFOEviction(t *testing.T) {
	c := types.NewSkippedKeyCache()
	var dhPub types.X25519Public

	for i := 0; i < types.MaxCache+5; i++ {
		c = c.WithPut(types.SkippedKeyID{DHPub: dhPub, Counter: uint32(i)}, []byte{byte(i)})
	}

	if c.Len() != types.MaxCache {
		t.Fatalf("cache grew past MaxCache: len=%d", c.Len())
	}
	if _, ok := c.Get(types.SkippedKeyID{DHPub: dhPub, Counter: 0}); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if _, ok := c.Get(types.SkippedKeyID{DHPub: dhPub, Counter: uint32(types.MaxCache + 4)}); !ok {
		t.Fatal("newest entry should still be present")
	}
}

func TestSkippedKeyCache_JSONRoundTrip_PreservesOrder(t *testing.T) {
	c := types.NewSkippedKeyCache()
	var dhPub types.X25519Public
	for i := 0; i < 5; i++ {
		c = c.WithPut(types.SkippedKeyID{DHPub: dhPub, Counter: uint32(i)}, []byte{byte(i), byte(i + 1)})
	}

	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got types.SkippedKeyCache
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Len() != c.Len() {
		t.Fatalf("length mismatch after round trip: got %d, want %d", got.Len(), c.Len())
	}
	for i := 0; i < 5; i++ {
		mk, ok := got.Get(types.SkippedKeyID{DHPub: dhPub, Counter: uint32(i)})
		if !ok {
			t.Fatalf("entry %d missing after round trip", i)
		}
		if len(mk) != 2 || mk[0] != byte(i) || mk[1] != byte(i+1) {
			t.Fatalf("entry %d corrupted after round trip: got %v", i, mk)
		}
	}

	raw2, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if !bytes.Equal(raw, raw2) {
		t.Fatalf("insertion order changed after round trip:\n got %s\nwant %s", raw2, raw)
	}
}

func TestRatchetState_JSONRoundTrip(t *testing.T) {
	var dhsPub types.X25519Public
	dhsPub[0] = 0xAB
	var dhr types.X25519Public
	dhr[0] = 0xCD

	state := types.RatchetState{
		DHsPub:  dhsPub,
		DHr:     &dhr,
		RK:      []byte{1, 2, 3},
		CKs:     []byte{4, 5, 6},
		Ns:      7,
		Nr:      8,
		PN:      9,
		Skipped: types.NewSkippedKeyCache(),
	}

	raw, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got types.RatchetState
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.DHsPub != state.DHsPub {
		t.Fatalf("DHsPub mismatch: got %x, want %x", got.DHsPub, state.DHsPub)
	}
	if got.DHr == nil || *got.DHr != *state.DHr {
		t.Fatalf("DHr mismatch after round trip")
	}
	if got.Ns != state.Ns || got.Nr != state.Nr || got.PN != state.PN {
		t.Fatalf("counters mismatch: got Ns=%d Nr=%d PN=%d", got.Ns, got.Nr, got.PN)
	}
}
