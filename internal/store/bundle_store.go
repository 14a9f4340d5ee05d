package store

import (
	"path/filepath"
	"sync"

	"wasp/internal/domain"
	"wasp/internal/domain/types"
)

const bundleFile = "bundles.json"

// PreKeyBundleFileStore caches pre-key bundles fetched from a relay, keyed
// by server and contact, so a session can be resumed without a network
// round trip. Bundles contain only public material, so unlike the other
// stores this one is not encrypted at rest.
type PreKeyBundleFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewPreKeyBundleFileStore returns a PreKeyBundleFileStore rooted at dir.
func NewPreKeyBundleFileStore(dir string) *PreKeyBundleFileStore {
	return &PreKeyBundleFileStore{dir: dir}
}

func bundleKey(serverURL string, contact types.ContactID) string {
	return serverURL + "|" + contact.String()
}

// SavePreKeyBundle stores or replaces the cached bundle for
// (serverURL, bundle.UserID).
func (s *PreKeyBundleFileStore) SavePreKeyBundle(serverURL string, bundle types.PreKeyBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, bundleFile)
	m := map[string]types.PreKeyBundle{}
	if err := readJSON(path, &m); err != nil {
		return err
	}
	m[bundleKey(serverURL, bundle.UserID)] = bundle
	return writeJSON(path, m, 0o600)
}

// LoadPreKeyBundle retrieves the cached bundle for (serverURL, contact).
func (s *PreKeyBundleFileStore) LoadPreKeyBundle(serverURL string, contact types.ContactID) (types.PreKeyBundle, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, bundleFile)
	m := map[string]types.PreKeyBundle{}
	if err := readJSON(path, &m); err != nil {
		return types.PreKeyBundle{}, false, err
	}
	b, ok := m[bundleKey(serverURL, contact)]
	return b, ok, nil
}

// Compile-time assertion that PreKeyBundleFileStore implements domain.PreKeyBundleStore.
var _ domain.PreKeyBundleStore = (*PreKeyBundleFileStore)(nil)
