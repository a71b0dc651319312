// Package session is the Go client for the goaltrack API. It owns the
// client half of the dual-token protocol: every call carries the current
// access token, and an unauthorized reply triggers exactly one silent
// refresh followed by exactly one retry.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// ErrSessionExpired is returned once the refresh path is exhausted: no
// stored refresh token, or the refresh call itself was rejected. Local
// token state has already been cleared when this is returned.
var ErrSessionExpired = errors.New("session expired")

// TokenStore holds the client's token pair. Implementations must be
// safe for concurrent use.
type TokenStore interface {
	Load() (accessToken, refreshToken string, err error)
	Save(accessToken, refreshToken string) error
	Clear() error
}

// MemoryStore keeps the pair in process memory. Suitable for tests and
// short-lived tools.
type MemoryStore struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, s.refresh, nil
}

func (s *MemoryStore) Save(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = accessToken
	s.refresh = refreshToken
	return nil
}

func (s *MemoryStore) Clear() error {
	return s.Save("", "")
}

// FileStore persists the pair as a 0600 JSON file, the desktop analog
// of the mobile app's secure storage.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type storedTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *FileStore) Load() (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", nil
		}
		return "", "", err
	}

	var tokens storedTokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return "", "", err
	}
	return tokens.AccessToken, tokens.RefreshToken, nil
}

func (s *FileStore) Save(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(storedTokens{AccessToken: accessToken, RefreshToken: refreshToken})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
