package store

import (
	"encoding/json"
	"path/filepath"
	"sync"

	"wasp/internal/domain"
	"wasp/internal/domain/types"
)

const sessionsFile = "sessions.json"

// SessionFileStore persists established ratchet sessions, one per contact,
// encrypted at rest under the caller's passphrase.
type SessionFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewSessionFileStore returns a SessionFileStore rooted at dir.
func NewSessionFileStore(dir string) *SessionFileStore {
	return &SessionFileStore{dir: dir}
}

func (s *SessionFileStore) load(passphrase string) (map[types.ContactID]types.Session, error) {
	m := map[types.ContactID]types.Session{}
	raw, err := readFile(filepath.Join(s.dir, sessionsFile))
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

func (s *SessionFileStore) save(passphrase string, m map[types.ContactID]types.Session) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	enc, err := encryptAtRest(passphrase, raw)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, sessionsFile), enc, 0o600)
}

// SaveSession writes or overwrites the session for session.ContactID.
func (s *SessionFileStore) SaveSession(passphrase string, session types.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(passphrase)
	if err != nil {
		return err
	}
	m[session.ContactID] = session
	return s.save(passphrase, m)
}

// LoadSession retrieves the stored session for contact.
func (s *SessionFileStore) LoadSession(passphrase string, contact types.ContactID) (types.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(passphrase)
	if err != nil {
		return types.Session{}, false, err
	}
	session, ok := m[contact]
	return session, ok, nil
}

// DeleteSession removes any stored session for contact.
func (s *SessionFileStore) DeleteSession(passphrase string, contact types.ContactID) error {
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

// Compile-time assertion that SessionFileStore implements domain.SessionStore.
var _ domain.SessionStore = (*SessionFileStore)(nil)
