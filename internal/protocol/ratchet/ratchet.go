package ratchet

import (
	"wasp/internal/crypto"
	"wasp/internal/domain"
	"wasp/internal/domain/types"
	"wasp/internal/util/memzero"
)

// InitSender seeds the sending side of a freshly created session (Alice in
// spec.md §4.4): a fresh DH ratchet key pair, root key and sending chain
// key derived from sk and peerSPKPub. The receiving chain is left empty
// until the first DH ratchet step on receive.
func InitSender(sk []byte, peerSPKPub types.X25519Public) (types.RatchetState, error) {
	dhsPriv, dhsPub, err := crypto.GenerateX25519()
	if err != nil {
		return types.RatchetState{}, err
	}
	dh, err := crypto.DH(dhsPriv, peerSPKPub)
	if err != nil {
		return types.RatchetState{}, err
	}
	rk, cks, err := crypto.KDFRootKey(sk, dh[:])
	memzero.Zero(dh[:])
	if err != nil {
		return types.RatchetState{}, err
	}
	peer := peerSPKPub
	return types.RatchetState{
		DHsPub:  dhsPub,
		DHsPriv: dhsPriv,
		DHr:     &peer,
		RK:      rk,
		CKs:     cks,
		Skipped: types.NewSkippedKeyCache(),
	}, nil
}

// InitReceiver seeds the responder side (Bob in spec.md §4.4), reusing the
// receiver's own signed pre-key pair as the starting DH ratchet key. Both
// chain keys stay empty; the first receive populates CKr, and the DH
// ratchet step that follows it populates CKs.
func InitReceiver(sk []byte, ownSPK types.SignedPreKey) types.RatchetState {
	return types.RatchetState{
		DHsPub:  ownSPK.Pub,
		DHsPriv: ownSPK.Priv,
		RK:      append([]byte(nil), sk...),
		Skipped: types.NewSkippedKeyCache(),
	}
}

// Encrypt advances the sending chain by one step and seals plaintext under
// the derived message key, binding header‖aad as AEAD associated data
// (spec.md §4.4). It fails with domain.ErrNotInitialized if no sending
// chain exists yet (a receiver that has not yet seen its first DH ratchet).
func Encrypt(state types.RatchetState, plaintext, aad []byte) (types.RatchetState, types.RatchetHeader, []byte, error) {
	if state.CKs == nil {
		return state, types.RatchetHeader{}, nil, domain.ErrNotInitialized
	}

	next := state.Clone()
	mk, nextCKs := crypto.KDFChainKey(next.CKs)
	header := types.RatchetHeader{DHRatchetKey: next.DHsPub, PN: next.PN, N: next.Ns}

	ciphertext, err := sealMessageKey(mk, header, aad, plaintext)
	memzero.Zero(mk)
	if err != nil {
		return state, types.RatchetHeader{}, nil, err
	}

	next.CKs = nextCKs
	next.Ns++
	return next, header, ciphertext, nil
}

// Decrypt opens a ciphertext against state, performing skipped-key lookup,
// a DH ratchet step, and in-chain key skipping as needed (spec.md §4.4). On
// any error the returned state is identical to the state argument: nothing
// is ever partially applied.
func Decrypt(state types.RatchetState, header types.RatchetHeader, ciphertext, aad []byte) (types.RatchetState, []byte, error) {
	skipID := types.SkippedKeyID{DHPub: header.DHRatchetKey, Counter: header.N}
	if mk, ok := state.Skipped.Get(skipID); ok {
		pt, err := openMessageKey(mk, header, aad, ciphertext)
		if err != nil {
			return state, nil, domain.ErrAuthFailure
		}
		next := state.Clone()
		next.Skipped = next.Skipped.WithoutKey(skipID)
		return next, pt, nil
	}

	working := state.Clone()

	if working.DHr == nil || *working.DHr != header.DHRatchetKey {
		var priorPeer types.X25519Public
		if working.DHr != nil {
			priorPeer = *working.DHr
		}

		var err error
		working, err = skipKeys(working, priorPeer, header.PN)
		if err != nil {
			return state, nil, err
		}

		dh1, err := crypto.DH(working.DHsPriv, header.DHRatchetKey)
		if err != nil {
			return state, nil, err
		}
		newRK, newCKr, err := crypto.KDFRootKey(working.RK, dh1[:])
		memzero.Zero(dh1[:])
		if err != nil {
			return state, nil, err
		}

		newDHsPriv, newDHsPub, err := crypto.GenerateX25519()
		if err != nil {
			return state, nil, err
		}

		dh2, err := crypto.DH(newDHsPriv, header.DHRatchetKey)
		if err != nil {
			return state, nil, err
		}
		newRK2, newCKs, err := crypto.KDFRootKey(newRK, dh2[:])
		memzero.Zero(dh2[:])
		if err != nil {
			return state, nil, err
		}

		peer := header.DHRatchetKey
		working.RK = newRK2
		working.DHr = &peer
		working.DHsPriv = newDHsPriv
		working.DHsPub = newDHsPub
		working.CKr = newCKr
		working.CKs = newCKs
		working.PN = working.Ns
		working.Ns = 0
		working.Nr = 0
	}

	var currentPeer types.X25519Public
	if working.DHr != nil {
		currentPeer = *working.DHr
	}
	working, err := skipKeys(working, currentPeer, header.N)
	if err != nil {
		return state, nil, err
	}
	if working.CKr == nil {
		return state, nil, domain.ErrNotInitialized
	}

	mk, nextCKr := crypto.KDFChainKey(working.CKr)
	pt, err := openMessageKey(mk, header, aad, ciphertext)
	memzero.Zero(mk)
	if err != nil {
		return state, nil, domain.ErrAuthFailure
	}

	working.CKr = nextCKr
	working.Nr = header.N + 1
	return working, pt, nil
}

// skipKeys advances the receiving chain from state.Nr up to (but not
// including) upTo, caching each derived message key under (dhPub, counter)
// so a later out-of-order message can still be decrypted (spec.md §4.4).
func skipKeys(state types.RatchetState, dhPub types.X25519Public, upTo uint32) (types.RatchetState, error) {
	if upTo <= state.Nr {
		return state, nil
	}
	if upTo-state.Nr > types.MaxSkip {
		return state, domain.ErrTooManySkipped
	}
	for state.Nr < upTo {
		if state.CKr == nil {
			return state, domain.ErrNotInitialized
		}
		mk, nextCKr := crypto.KDFChainKey(state.CKr)
		id := types.SkippedKeyID{DHPub: dhPub, Counter: state.Nr}
		state.Skipped = state.Skipped.WithPut(id, mk)
		state.CKr = nextCKr
		state.Nr++
	}
	return state, nil
}

func sealMessageKey(mk []byte, header types.RatchetHeader, aad, plaintext []byte) ([]byte, error) {
	cipherKey, _, iv, err := crypto.KDFMessageKey(mk)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(cipherKey)
	return crypto.Seal(cipherKey, iv, plaintext, fullAAD(header, aad))
}

func openMessageKey(mk []byte, header types.RatchetHeader, aad, ciphertext []byte) ([]byte, error) {
	cipherKey, _, iv, err := crypto.KDFMessageKey(mk)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(cipherKey)
	return crypto.Open(cipherKey, iv, ciphertext, fullAAD(header, aad))
}

func fullAAD(header types.RatchetHeader, aad []byte) []byte {
	out := header.Bytes()
	return append(out, aad...)
}
