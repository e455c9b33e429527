package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/thepivo/pivoadmin/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultSessionFile is the name of the session file inside the config directory.
const DefaultSessionFile = "session.yaml"

// fileState is the on-disk layout: two named entries, the bearer token and the
// JSON-serialized profile.
type fileState struct {
	Token string `yaml:"auth_token,omitempty"`
	User  string `yaml:"user,omitempty"`
}

// FileStore persists the session in a YAML file so it survives process restarts.
// Every accessor reads the file again, so a login performed by another process is
// picked up on the next request. Writes replace the file atomically.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// GetDefaultSessionPath returns the OS-specific session location
// (e.g., ~/.config/pivoadmin/session.yaml on Linux).
func GetDefaultSessionPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "pivoadmin", DefaultSessionFile), nil
}

// NewFileStore returns a store backed by the file at path. An empty path selects
// the default location. The file itself is created on first write.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		var err error
		path, err = GetDefaultSessionPath()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("unable to create session directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the location of the session file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) GetToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().Token
}

func (s *FileStore) SetToken(token string) error {
	return s.update(func(st *fileState) error {
		st.Token = token
		return nil
	})
}

func (s *FileStore) ClearToken() error {
	return s.SetToken("")
}

func (s *FileStore) GetUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decodeUser([]byte(s.read().User))
}

func (s *FileStore) SetUser(user *models.User) error {
	raw, err := encodeUser(user)
	if err != nil {
		return err
	}
	return s.update(func(st *fileState) error {
		st.User = string(raw)
		return nil
	})
}

func (s *FileStore) ClearUser() error {
	return s.update(func(st *fileState) error {
		st.User = ""
		return nil
	})
}

// Clear removes the session file, dropping token and profile in one step.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return ErrSessionWrite.MsgErr("unable to remove session file", err)
	}
	return nil
}

func (s *FileStore) update(fn func(*fileState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.read()
	if err := fn(&st); err != nil {
		return err
	}
	return s.write(st)
}

// read returns the stored state. A missing or unreadable file is an empty session.
func (s *FileStore) read() fileState {
	var st fileState
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", s.path).Msg("unable to read session file")
		}
		return st
	}
	if err := yaml.Unmarshal(data, &st); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("ignoring corrupt session file")
		return fileState{}
	}
	return st
}

func (s *FileStore) write(st fileState) error {
	data, err := yaml.Marshal(&st)
	if err != nil {
		return ErrSessionWrite.MsgErr("unable to encode session", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return ErrSessionWrite.MsgErr("unable to create session file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return ErrSessionWrite.MsgErr("unable to set session file mode", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return ErrSessionWrite.MsgErr("unable to write session file", err)
	}
	if err := tmp.Close(); err != nil {
		return ErrSessionWrite.MsgErr("unable to write session file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return ErrSessionWrite.MsgErr("unable to replace session file", err)
	}
	return nil
}
