package prekey

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"wasp/internal/crypto"
	"wasp/internal/domain"
	"wasp/internal/domain/types"
)

// ErrNoSignedPreKey is returned by BuildPreKeyBundle when no signed
// pre-key has ever been generated for this identity.
var ErrNoSignedPreKey = errors.New("wasp: no signed pre-key available")

// Service manages pre-key pairs and builds the public bundle a peer fetches
// to initiate a session (spec.md §3).
type Service struct {
	ids domain.IdentityStore
	ps  domain.PreKeyStore
	log *zap.Logger
}

// New returns a pre-key service backed by the given stores. A nil logger is
// replaced with zap.NewNop().
func New(ids domain.IdentityStore, ps domain.PreKeyStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{ids: ids, ps: ps, log: log}
}

// GenerateAndStoreSignedPreKey creates a fresh SPK, signs it with the
// stored identity's signing key, and persists it as the current one. Any
// previously current SPK is retained in the store, not replaced; incoming
// pre-key messages are processed against the current SPK only.
func (s *Service) GenerateAndStoreSignedPreKey(passphrase string) (types.SignedPreKeyPublic, error) {
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return types.SignedPreKeyPublic{}, err
	}
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		return types.SignedPreKeyPublic{}, err
	}
	nextID, err := s.ps.NextSignedPreKeyID(passphrase)
	if err != nil {
		if errors.Is(err, domain.ErrExhaustedKeyIDs) {
			s.log.Warn("signed pre-key id space exhausted")
		}
		return types.SignedPreKeyPublic{}, err
	}
	spk := types.SignedPreKey{
		ID:             nextID,
		Pub:            pub,
		Priv:           priv,
		Signature:      crypto.SignEd25519(id.SignPriv, pub[:]),
		CreatedAtMilli: time.Now().UnixMilli(),
	}
	if err := s.ps.SaveSignedPreKey(passphrase, spk); err != nil {
		return types.SignedPreKeyPublic{}, err
	}
	return spk.Public(), nil
}

// GenerateAndStoreOneTimePreKeys creates and persists count fresh OPKs,
// returning their public halves for upload to the relay.
func (s *Service) GenerateAndStoreOneTimePreKeys(passphrase string, count int) ([]types.OneTimePreKeyPublic, error) {
	nextID, err := s.ps.NextOneTimePreKeyID(passphrase)
	if err != nil {
		if errors.Is(err, domain.ErrExhaustedKeyIDs) {
			s.log.Warn("one-time pre-key id space exhausted")
		}
		return nil, err
	}
	keys := make([]types.OneTimePreKey, 0, count)
	publics := make([]types.OneTimePreKeyPublic, 0, count)
	for i := 0; i < count; i++ {
		priv, pub, err := crypto.GenerateX25519()
		if err != nil {
			return nil, err
		}
		k := types.OneTimePreKey{ID: nextID + types.KeyID(i), Pub: pub, Priv: priv}
		keys = append(keys, k)
		publics = append(publics, k.Public())
	}
	if err := s.ps.SaveOneTimePreKeys(passphrase, keys); err != nil {
		if errors.Is(err, domain.ErrExhaustedKeyIDs) {
			s.log.Warn("one-time pre-key id space exhausted")
		}
		return nil, err
	}
	return publics, nil
}

// BuildPreKeyBundle assembles the bundle a peer fetches to initiate a
// session: the current SPK, this device's identity keys, and one OPK if
// any remain. The OPK's private half stays in the store until an incoming
// pre-key message that names it consumes it.
func (s *Service) BuildPreKeyBundle(passphrase string, userID types.ContactID) (types.PreKeyBundle, error) {
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return types.PreKeyBundle{}, err
	}

	spkID, ok, err := s.ps.CurrentSignedPreKeyID(passphrase)
	if err != nil {
		return types.PreKeyBundle{}, err
	}
	if !ok {
		return types.PreKeyBundle{}, ErrNoSignedPreKey
	}
	spk, ok, err := s.ps.LoadSignedPreKey(passphrase, spkID)
	if err != nil {
		return types.PreKeyBundle{}, err
	}
	if !ok {
		return types.PreKeyBundle{}, ErrNoSignedPreKey
	}

	var opkPub *types.OneTimePreKeyPublic
	publics, err := s.ps.ListOneTimePreKeyPublics(passphrase)
	if err != nil {
		return types.PreKeyBundle{}, err
	}
	if len(publics) > 0 {
		pub := publics[0]
		opkPub = &pub
	}

	return types.PreKeyBundle{
		UserID:         userID,
		RegistrationID: id.RegistrationID,
		IdentityDHKey:  id.DHPub,
		IdentitySigKey: id.SignPub,
		SignedPreKey:   spk.Public(),
		OneTimePreKey:  opkPub,
	}, nil
}

// Compile-time assertion that Service implements domain.PreKeyService.
var _ domain.PreKeyService = (*Service)(nil)
