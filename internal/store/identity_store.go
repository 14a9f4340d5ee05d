package store

import (
	"encoding/json"
	"path/filepath"
	"sync"

	"wasp/internal/domain"
	"wasp/internal/domain/types"
)

const identityFile = "identity.json"

// IdentityFileStore persists the device's long-term identity, encrypted at
// rest under the caller's passphrase.
type IdentityFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir.
func NewIdentityFileStore(dir string) *IdentityFileStore {
	return &IdentityFileStore{dir: dir}
}

// SaveIdentity encrypts and writes id, overwriting any existing identity.
func (s *IdentityFileStore) SaveIdentity(passphrase string, id types.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	enc, err := encryptAtRest(passphrase, raw)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, identityFile), enc, 0o600)
}

// LoadIdentity decrypts and returns the stored identity.
func (s *IdentityFileStore) LoadIdentity(passphrase string) (types.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := readFile(filepath.Join(s.dir, identityFile))
	if err != nil {
		return types.Identity{}, err
	}
	if raw == nil {
		return types.Identity{}, domain.ErrParseError
	}
	pt, err := decryptAtRest(passphrase, raw)
	if err != nil {
		return types.Identity{}, err
	}
	var id types.Identity
	if err := strictUnmarshal(pt, &id); err != nil {
		return types.Identity{}, err
	}
	return id, nil
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
