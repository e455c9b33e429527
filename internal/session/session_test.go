package session

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thepivo/pivoadmin/internal/models"
)

func newStores(t *testing.T) map[string]Store {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.yaml"))
	require.NoError(t, err)
	return map[string]Store{
		"file":   fs,
		"memory": NewMemoryStore(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, s.GetToken())
			assert.Nil(t, s.GetUser())

			require.NoError(t, s.SetToken("tok-1"))
			require.NoError(t, s.SetUser(&models.User{ID: "u1", Name: "Anna", Role: models.RoleAdmin}))
			assert.Equal(t, "tok-1", s.GetToken())
			u := s.GetUser()
			require.NotNil(t, u)
			assert.Equal(t, "u1", u.ID)
			assert.Equal(t, "Anna", u.Name)

			require.NoError(t, s.ClearToken())
			assert.Empty(t, s.GetToken())
			assert.NotNil(t, s.GetUser())

			require.NoError(t, s.ClearUser())
			assert.Nil(t, s.GetUser())
		})
	}
}

func TestStoreClearRemovesBoth(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SetToken("tok"))
			require.NoError(t, s.SetUser(&models.User{ID: "u1"}))
			require.NoError(t, s.Clear())
			assert.Empty(t, s.GetToken())
			assert.Nil(t, s.GetUser())
			// clearing an empty session is not an error
			require.NoError(t, s.Clear())
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	s1, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.SetToken("persisted"))
	require.NoError(t, s1.SetUser(&models.User{ID: "u9", Email: "ops@pivo.test"}))

	s2, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, "persisted", s2.GetToken())
	require.NotNil(t, s2.GetUser())
	assert.Equal(t, "ops@pivo.test", s2.GetUser().Email)

	// a write through one handle is visible through the other
	require.NoError(t, s2.SetToken("rotated"))
	assert.Equal(t, "rotated", s1.GetToken())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "auth_token: rotated")
}

func TestFileStoreIgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth_token: [unterminated"), 0o600))
	s, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Empty(t, s.GetToken())
	require.NoError(t, s.SetToken("fresh"))
	assert.Equal(t, "fresh", s.GetToken())
}

func TestStoreConcurrentAccess(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = s.SetToken("t")
					_ = s.GetToken()
					_ = s.SetUser(&models.User{ID: "u"})
					_ = s.GetUser()
				}()
			}
			wg.Wait()
			assert.Equal(t, "t", s.GetToken())
		})
	}
}
