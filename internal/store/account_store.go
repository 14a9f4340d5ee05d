package store

import (
	"path/filepath"
	"sync"

	"wasp/internal/domain"
	"wasp/internal/domain/types"
)

const accountsFile = "accounts.json"

// AccountFileStore persists per-relay account profiles to disk. Profiles
// contain no secret material, so this store is not encrypted at rest.
type AccountFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewAccountFileStore returns an AccountFileStore rooted at dir.
func NewAccountFileStore(dir string) *AccountFileStore {
	return &AccountFileStore{dir: dir}
}

func accountKey(serverURL string, userID types.ContactID) string {
	return serverURL + "|" + userID.String()
}

// SaveAccountProfile stores or updates the given profile.
func (s *AccountFileStore) SaveAccountProfile(profile types.AccountProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, accountsFile)
	profiles := map[string]types.AccountProfile{}
	if err := readJSON(path, &profiles); err != nil {
		return err
	}
	profiles[accountKey(profile.ServerURL, profile.UserID)] = profile
	return writeJSON(path, profiles, 0o600)
}

// LoadAccountProfile retrieves a profile for (serverURL, userID).
func (s *AccountFileStore) LoadAccountProfile(serverURL string, userID types.ContactID) (types.AccountProfile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, accountsFile)
	profiles := map[string]types.AccountProfile{}
	if err := readJSON(path, &profiles); err != nil {
		return types.AccountProfile{}, false, err
	}
	profile, ok := profiles[accountKey(serverURL, userID)]
	return profile, ok, nil
}

// ListAccountProfiles returns every locally known account profile, across
// all relay servers.
func (s *AccountFileStore) ListAccountProfiles() ([]types.AccountProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, accountsFile)
	profiles := map[string]types.AccountProfile{}
	if err := readJSON(path, &profiles); err != nil {
		return nil, err
	}
	out := make([]types.AccountProfile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p)
	}
	return out, nil
}

// Compile-time assertion that AccountFileStore implements domain.AccountStore.
var _ domain.AccountStore = (*AccountFileStore)(nil)
