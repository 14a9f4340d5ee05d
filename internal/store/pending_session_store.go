package store

import (
	"encoding/json"
	"path/filepath"
	"sync"

	"wasp/internal/domain"
	"wasp/internal/domain/types"
)

const pendingSessionsFile = "pending_sessions.json"

// PendingSessionFileStore persists in-flight PendingX3DHContext values so a
// session that has not yet sent its first envelope survives a process
// restart (spec.md §5). Callers are responsible for expiring entries that
// are never consumed; this store only provides the CRUD surface.
type PendingSessionFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewPendingSessionFileStore returns a PendingSessionFileStore rooted at dir.
func NewPendingSessionFileStore(dir string) *PendingSessionFileStore {
	return &PendingSessionFileStore{dir: dir}
}

func (s *PendingSessionFileStore) load(passphrase string) (map[types.ContactID]types.PendingSession, error) {
	m := map[types.ContactID]types.PendingSession{}
	raw, err := readFile(filepath.Join(s.dir, pendingSessionsFile))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return m, nil
	}
	pt, err := decryptAtRest(passphrase, raw)
	if err != nil {
		return nil, err
	}
	if err := strictUnmarshal(pt, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *PendingSessionFileStore) save(passphrase string, m map[types.ContactID]types.PendingSession) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	enc, err := encryptAtRest(passphrase, raw)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, pendingSessionsFile), enc, 0o600)
}

// SavePending records pending as the in-flight context for contact.
func (s *PendingSessionFileStore) SavePending(passphrase string, contact types.ContactID, pending types.PendingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(passphrase)
	if err != nil {
		return err
	}
	m[contact] = pending
	return s.save(passphrase, m)
}

// LoadPending retrieves the in-flight context for contact, if any.
func (s *PendingSessionFileStore) LoadPending(passphrase string, contact types.ContactID) (types.PendingSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(passphrase)
	if err != nil {
		return types.PendingSession{}, false, err
	}
	p, ok := m[contact]
	return p, ok, nil
}

// DeletePending removes the in-flight context for contact, if any.
func (s *PendingSessionFileStore) DeletePending(passphrase string, contact types.ContactID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(passphrase)
	if err != nil {
		return err
	}
	if _, ok := m[contact]; !ok {
		return nil
	}
	delete(m, contact)
	return s.save(passphrase, m)
}

// Compile-time assertion that PendingSessionFileStore implements domain.PendingSessionStore.
var _ domain.PendingSessionStore = (*PendingSessionFileStore)(nil)
