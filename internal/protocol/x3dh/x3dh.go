package x3dh

import (
	"wasp/internal/crypto"
	"wasp/internal/domain"
	"wasp/internal/domain/types"
	"wasp/internal/util/memzero"
)

// SendResult is everything Send produces: the derived master secret, the
// fresh ephemeral key pair it generated, and which one-time pre-key it
// consumed, if any.
type SendResult struct {
	SK                  []byte
	EphemeralPub        types.X25519Public
	EphemeralPriv       types.X25519Private
	UsedOneTimePreKeyID *types.KeyID
}

// Send runs the initiator side of X3DH (spec.md §4.3). It verifies the
// bundle's signed pre-key signature first so a MITM cannot swap in a
// malicious SPK; verification failure is domain.ErrInvalidSignature.
func Send(identity types.Identity, bundle types.PreKeyBundle) (SendResult, error) {
	if !crypto.VerifyEd25519(bundle.IdentitySigKey, bundle.SignedPreKey.Pub.Slice(), bundle.SignedPreKey.Signature) {
		return SendResult{}, domain.ErrInvalidSignature
	}

	ephPriv, ephPub, err := crypto.GenerateX25519()
	if err != nil {
		return SendResult{}, err
	}

	dh1, err := crypto.DH(identity.DHPriv, bundle.SignedPreKey.Pub) // DH(IKa, SPKb)
	if err != nil {
		return SendResult{}, err
	}
	dh2, err := crypto.DH(ephPriv, bundle.IdentityDHKey) // DH(EKa, IKb)
	if err != nil {
		return SendResult{}, err
	}
	dh3, err := crypto.DH(ephPriv, bundle.SignedPreKey.Pub) // DH(EKa, SPKb)
	if err != nil {
		return SendResult{}, err
	}

	dhTerms := [][]byte{dh1[:], dh2[:], dh3[:]}
	var usedID *types.KeyID
	if bundle.OneTimePreKey != nil {
		dh4, err := crypto.DH(ephPriv, bundle.OneTimePreKey.Pub) // DH(EKa, OPKb)
		if err != nil {
			return SendResult{}, err
		}
		dhTerms = append(dhTerms, dh4[:])
		defer memzero.Zero(dh4[:])
		id := bundle.OneTimePreKey.ID
		usedID = &id
	}
	defer memzero.Zero(dh1[:])
	defer memzero.Zero(dh2[:])
	defer memzero.Zero(dh3[:])

	sk, err := crypto.KDFX3DH(dhTerms...)
	if err != nil {
		return SendResult{}, err
	}

	return SendResult{SK: sk, EphemeralPub: ephPub, EphemeralPriv: ephPriv, UsedOneTimePreKeyID: usedID}, nil
}

// ReceiveParams bundles the responder-side inputs to Receive.
type ReceiveParams struct {
	Identity            types.Identity
	SPK                 types.SignedPreKey
	OPK                 *types.OneTimePreKey
	SenderIdentityDHPub types.X25519Public
	SenderEphemeralPub  types.X25519Public
}

// Receive runs the responder side of X3DH (spec.md §4.3). The caller is
// responsible for destroying p.OPK's private half immediately after this
// call returns, per the pre-key lifecycle invariant in spec.md §3.
func Receive(p ReceiveParams) ([]byte, error) {
	dh1, err := crypto.DH(p.SPK.Priv, p.SenderIdentityDHPub) // DH(SPKb, IKa)
	if err != nil {
		return nil, err
	}
	dh2, err := crypto.DH(p.Identity.DHPriv, p.SenderEphemeralPub) // DH(IKb, EKa)
	if err != nil {
		return nil, err
	}
	dh3, err := crypto.DH(p.SPK.Priv, p.SenderEphemeralPub) // DH(SPKb, EKa)
	if err != nil {
		return nil, err
	}

	dhTerms := [][]byte{dh1[:], dh2[:], dh3[:]}
	if p.OPK != nil {
		dh4, err := crypto.DH(p.OPK.Priv, p.SenderEphemeralPub) // DH(OPKb, EKa)
		if err != nil {
			return nil, err
		}
		dhTerms = append(dhTerms, dh4[:])
		defer memzero.Zero(dh4[:])
	}
	defer memzero.Zero(dh1[:])
	defer memzero.Zero(dh2[:])
	defer memzero.Zero(dh3[:])

	return crypto.KDFX3DH(dhTerms...)
}
