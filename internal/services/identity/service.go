package identity

import (
	"fmt"
	"unicode"

	"wasp/internal/crypto"
	"wasp/internal/domain"
	"wasp/internal/domain/types"
)

const minPassphraseLength = 12

// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
var ErrWeakPassphrase = fmt.Errorf(
	"passphrase is too weak (must be at least %d characters and include upper, lower, "+
		"number, and symbol)",
	minPassphraseLength,
)

// Service manages identity key creation and access using a backing store.
//
// The identity contains:
//   - X25519 key pair for Diffie-Hellman (X3DH and Double Ratchet).
//   - Ed25519 key pair for signing (for example, signing the Signed Pre-Key).
type Service struct {
	store domain.IdentityStore
}

// New returns an identity service backed by the given store.
func New(s domain.IdentityStore) *Service { return &Service{store: s} }

// GenerateIdentity creates a new identity, assigns it a fresh registration
// id, saves it encrypted with the passphrase, and returns the identity plus
// a fingerprint of its public key material.
func (s *Service) GenerateIdentity(passphrase string) (types.Identity, types.Fingerprint, error) {
	if !isSecurePassphrase(passphrase) {
		return types.Identity{}, "", ErrWeakPassphrase
	}

	dhPriv, dhPub, err := crypto.GenerateX25519()
	if err != nil {
		return types.Identity{}, "", err
	}
	signPriv, signPub, err := crypto.GenerateEd25519()
	if err != nil {
		return types.Identity{}, "", err
	}
	regID, err := crypto.RandRegistrationID()
	if err != nil {
		return types.Identity{}, "", err
	}

	id := types.Identity{
		RegistrationID: regID,
		SignPub:        signPub,
		SignPriv:       signPriv,
		DHPub:          dhPub,
		DHPriv:         dhPriv,
	}
	if err := s.store.SaveIdentity(passphrase, id); err != nil {
		return types.Identity{}, "", err
	}
	return id, fingerprintOf(id), nil
}

// LoadIdentity decrypts and returns the local identity.
func (s *Service) LoadIdentity(passphrase string) (types.Identity, error) {
	return s.store.LoadIdentity(passphrase)
}

// FingerprintIdentity returns a fingerprint of the local public key material.
func (s *Service) FingerprintIdentity(passphrase string) (types.Fingerprint, error) {
	id, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return "", err
	}
	return fingerprintOf(id), nil
}

// fingerprintOf derives a display fingerprint from both long-term public
// keys, so two identities with the same DH key but different signing key
// (or vice versa) are never visually indistinguishable.
func fingerprintOf(id types.Identity) types.Fingerprint {
	material := append(append([]byte{}, id.DHPub[:]...), id.SignPub[:]...)
	return types.Fingerprint(crypto.Fingerprint(material))
}

func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
