// Package crypto exposes the primitive cryptographic operations the wasp
// protocol core is built from.
//
// Contents
//
//   - X25519 key generation, clamping and Diffie-Hellman (GenerateX25519, DH)
//   - Ed25519 key generation, signing and verification (GenerateEd25519,
//     SignEd25519, VerifyEd25519)
//   - The fixed-label key-schedule KDFs from spec §4.1: KDFRootKey, KDFChainKey,
//     KDFMessageKey, KDFX3DH, KDFMedia
//   - AES-256-GCM sealing/opening (Seal, Open)
//   - HMAC-SHA256 (HMAC) and a full-length constant-time compare (CtEq)
//   - CSRNG helpers (RandBytes, RandRegistrationID)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// All functions are pure and hold no state: every call either returns a
// result or an error, never both partially. Callers are expected to zeroize
// secrets with memzero.Zero (internal/util/memzero) once they are no longer
// needed.
package crypto
