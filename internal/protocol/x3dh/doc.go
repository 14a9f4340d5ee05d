// Package x3dh implements the Extended Triple Diffie-Hellman key agreement
// that bootstraps a Double Ratchet session between two parties.
//
// # Overview
//
// X3DH lets an initiator derive a shared 32-byte master secret with a
// responder who has published a pre-key bundle: an identity key, a signed
// pre-key (with its Ed25519 signature), and an optional one-time pre-key.
//
// # Flows
//
// Send (initiator):
//  1. Verify the bundle's signed pre-key signature.
//  2. Generate a fresh ephemeral X25519 key pair.
//  3. Compute DH1..DH3 (and DH4 if an OPK was offered) in the fixed order
//     spec'd for interop.
//  4. KDF_X3DH over the concatenated DH outputs produces SK.
//
// Receive (responder):
//  1. Compute the same DH terms (three, or four when an OPK was used) from
//     the other side — DH is
//     commutative in the pair ordering used, so the bytes match.
//  2. KDF_X3DH the same transcript to the identical SK.
//  3. The caller destroys the consumed one-time pre-key's private half.
//
// Both sides always land on the same SK because DH(a_priv, B_pub) equals
// DH(b_priv, A_pub); placing the terms in identical KDF positions is what
// makes the two computations agree.
package x3dh
