package session

import (
	"sync"

	"github.com/thepivo/pivoadmin/internal/models"
)

// MemoryStore keeps the session in process memory. Useful for tests and for
// one-shot commands that must not touch the session file.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	user  []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) GetToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) ClearToken() error {
	return s.SetToken("")
}

// GetUser returns a copy of the cached profile, or nil if none is stored.
func (s *MemoryStore) GetUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return decodeUser(s.user)
}

func (s *MemoryStore) SetUser(user *models.User) error {
	raw, err := encodeUser(user)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = raw
	return nil
}

func (s *MemoryStore) ClearUser() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}

func encodeUser(user *models.User) ([]byte, error) {
	if user == nil {
		return nil, nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, ErrInvalidUser.MsgErr("unable to serialize user profile", err)
	}
	return raw, nil
}

func decodeUser(raw []byte) *models.User {
	if len(raw) == 0 {
		return nil
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil
	}
	return &u
}
