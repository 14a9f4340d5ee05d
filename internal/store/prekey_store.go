package store

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"sync"

	"wasp/internal/domain"
	"wasp/internal/domain/types"
)

const (
	signedPreKeysFile  = "spk_store.json"
	oneTimePreKeysFile = "opk_store.json"
	preKeyMetaFile     = "prekey_meta.json"
)

// maxKeyID is the highest id representable in the 24-bit pre-key id space
// (spec.md §4.2).
const maxKeyID = 1<<24 - 1

// PreKeyFileStore persists signed and one-time pre-key material, encrypted
// at rest under the caller's passphrase.
type PreKeyFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewPreKeyFileStore returns a PreKeyFileStore rooted at dir.
func NewPreKeyFileStore(dir string) *PreKeyFileStore {
	return &PreKeyFileStore{dir: dir}
}

type preKeyMeta struct {
	CurrentSignedPreKeyID *types.KeyID `json:"current_signed_pre_key_id,omitempty"`
	NextOneTimePreKeyID   types.KeyID  `json:"next_one_time_pre_key_id"`
	NextSignedPreKeyID    types.KeyID  `json:"next_signed_pre_key_id"`
}

func (s *PreKeyFileStore) loadEncryptedMap(passphrase, filename string, out any) error {
	raw, err := readFile(filepath.Join(s.dir, filename))
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	pt, err := decryptAtRest(passphrase, raw)
	if err != nil {
		return err
	}
	return strictUnmarshal(pt, out)
}

func (s *PreKeyFileStore) saveEncrypted(passphrase, filename string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	enc, err := encryptAtRest(passphrase, raw)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, filename), enc, 0o600)
}

// SaveSignedPreKey persists spk and records it as the current signed
// pre-key. Previously stored signed pre-keys are retained, not replaced.
func (s *PreKeyFileStore) SaveSignedPreKey(passphrase string, spk types.SignedPreKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[types.KeyID]types.SignedPreKey{}
	if err := s.loadEncryptedMap(passphrase, signedPreKeysFile, &m); err != nil {
		return err
	}
	m[spk.ID] = spk
	if err := s.saveEncrypted(passphrase, signedPreKeysFile, m); err != nil {
		return err
	}

	var meta preKeyMeta
	if err := s.loadEncryptedMap(passphrase, preKeyMetaFile, &meta); err != nil {
		return err
	}
	id := spk.ID
	meta.CurrentSignedPreKeyID = &id
	if id+1 > meta.NextSignedPreKeyID {
		meta.NextSignedPreKeyID = id + 1
	}
	return s.saveEncrypted(passphrase, preKeyMetaFile, meta)
}

// LoadSignedPreKey retrieves a signed pre-key by id.
func (s *PreKeyFileStore) LoadSignedPreKey(passphrase string, id types.KeyID) (types.SignedPreKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[types.KeyID]types.SignedPreKey{}
	if err := s.loadEncryptedMap(passphrase, signedPreKeysFile, &m); err != nil {
		return types.SignedPreKey{}, false, err
	}
	spk, ok := m[id]
	return spk, ok, nil
}

// CurrentSignedPreKeyID returns the id of the signed pre-key newest in
// creation order.
func (s *PreKeyFileStore) CurrentSignedPreKeyID(passphrase string) (types.KeyID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var meta preKeyMeta
	if err := s.loadEncryptedMap(passphrase, preKeyMetaFile, &meta); err != nil {
		return 0, false, err
	}
	if meta.CurrentSignedPreKeyID == nil {
		return 0, false, nil
	}
	return *meta.CurrentSignedPreKeyID, true, nil
}

// ListSignedPreKeys returns every retained signed pre-key, oldest first.
func (s *PreKeyFileStore) ListSignedPreKeys(passphrase string) ([]types.SignedPreKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[types.KeyID]types.SignedPreKey{}
	if err := s.loadEncryptedMap(passphrase, signedPreKeysFile, &m); err != nil {
		return nil, err
	}
	out := make([]types.SignedPreKey, 0, len(m))
	for _, spk := range m {
		out = append(out, spk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAtMilli < out[j].CreatedAtMilli })
	return out, nil
}

// SaveOneTimePreKeys merges the given one-time pre-keys into the store and
// advances the next-id counter past the highest id saved. Every id in the
// batch is checked against the 24-bit id space, not just the first: a batch
// that would climb past maxKeyID is rejected in full, rather than silently
// wrapping (spec.md §4.2).
func (s *PreKeyFileStore) SaveOneTimePreKeys(passphrase string, keys []types.OneTimePreKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		if k.ID > maxKeyID {
			return domain.ErrExhaustedKeyIDs
		}
	}

	m := map[types.KeyID]types.OneTimePreKey{}
	if err := s.loadEncryptedMap(passphrase, oneTimePreKeysFile, &m); err != nil {
		return err
	}
	var maxID types.KeyID
	for _, k := range keys {
		m[k.ID] = k
		if k.ID > maxID {
			maxID = k.ID
		}
	}
	if err := s.saveEncrypted(passphrase, oneTimePreKeysFile, m); err != nil {
		return err
	}

	var meta preKeyMeta
	if err := s.loadEncryptedMap(passphrase, preKeyMetaFile, &meta); err != nil {
		return err
	}
	if maxID >= meta.NextOneTimePreKeyID {
		meta.NextOneTimePreKeyID = maxID + 1
	}
	return s.saveEncrypted(passphrase, preKeyMetaFile, meta)
}

// ConsumeOneTimePreKey loads and permanently deletes the private half of
// the named one-time pre-key (spec.md §3: destroyed on consumption).
func (s *PreKeyFileStore) ConsumeOneTimePreKey(passphrase string, id types.KeyID) (types.OneTimePreKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[types.KeyID]types.OneTimePreKey{}
	if err := s.loadEncryptedMap(passphrase, oneTimePreKeysFile, &m); err != nil {
		return types.OneTimePreKey{}, false, err
	}
	k, ok := m[id]
	if !ok {
		return types.OneTimePreKey{}, false, nil
	}
	delete(m, id)
	if err := s.saveEncrypted(passphrase, oneTimePreKeysFile, m); err != nil {
		return types.OneTimePreKey{}, false, err
	}
	return k, true, nil
}

// ListOneTimePreKeyPublics exposes only the public halves, for bundling.
func (s *PreKeyFileStore) ListOneTimePreKeyPublics(passphrase string) ([]types.OneTimePreKeyPublic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[types.KeyID]types.OneTimePreKey{}
	if err := s.loadEncryptedMap(passphrase, oneTimePreKeysFile, &m); err != nil {
		return nil, err
	}
	out := make([]types.OneTimePreKeyPublic, 0, len(m))
	for _, k := range m {
		out = append(out, k.Public())
	}
	return out, nil
}

// NextOneTimePreKeyID returns the next unused id in the 24-bit id space.
func (s *PreKeyFileStore) NextOneTimePreKeyID(passphrase string) (types.KeyID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var meta preKeyMeta
	if err := s.loadEncryptedMap(passphrase, preKeyMetaFile, &meta); err != nil {
		return 0, err
	}
	if meta.NextOneTimePreKeyID > maxKeyID {
		return 0, domain.ErrExhaustedKeyIDs
	}
	return meta.NextOneTimePreKeyID, nil
}

// NextSignedPreKeyID returns the next unused id in the signed pre-key's own
// 24-bit id space, distinct from the one-time pre-key counter.
func (s *PreKeyFileStore) NextSignedPreKeyID(passphrase string) (types.KeyID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var meta preKeyMeta
	if err := s.loadEncryptedMap(passphrase, preKeyMetaFile, &meta); err != nil {
		return 0, err
	}
	if meta.NextSignedPreKeyID > maxKeyID {
		return 0, domain.ErrExhaustedKeyIDs
	}
	return meta.NextSignedPreKeyID, nil
}

// Compile-time assertion that PreKeyFileStore implements domain.PreKeyStore.
var _ domain.PreKeyStore = (*PreKeyFileStore)(nil)
