package identitysdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Storage is the minimal key-value surface the session layer persists
// through. Implementations must be safe for concurrent use.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// MemoryStorage keeps values in process memory. Suitable for tests and
// short-lived tools.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// FileStorage persists values as a single JSON file. Every write rewrites the
// file; the expected cardinality is two keys.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage file: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse storage file: %w", err)
	}
	return values, nil
}

func (s *FileStorage) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	return nil
}

func (s *FileStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

func (s *FileStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	delete(values, key)
	return s.save(values)
}

// Storage keys used by AuthStorage. Two slots: the bearer token and the
// serialized public user.
const (
	KeyAccessToken = "accessToken"
	KeyAuthUser    = "authUser"
)

// AuthStorage is the typed layer over Storage holding the authenticated
// session's two values.
type AuthStorage struct {
	store Storage
}

func NewAuthStorage(store Storage) *AuthStorage {
	return &AuthStorage{store: store}
}

func (a *AuthStorage) AccessToken() (string, bool) {
	return a.store.Get(KeyAccessToken)
}

func (a *AuthStorage) SetAccessToken(token string) error {
	return a.store.Set(KeyAccessToken, token)
}

func (a *AuthStorage) User() (*PublicUser, bool) {
	raw, ok := a.store.Get(KeyAuthUser)
	if !ok {
		return nil, false
	}

	var user PublicUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, false
	}
	return &user, true
}

func (a *AuthStorage) SetUser(user PublicUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return a.store.Set(KeyAuthUser, string(data))
}

// IsLoggedIn reports whether both slots are populated.
func (a *AuthStorage) IsLoggedIn() bool {
	if _, ok := a.AccessToken(); !ok {
		return false
	}
	_, ok := a.User()
	return ok
}

// Clear removes both slots. Partial failures still attempt the second
// removal; the first error wins.
func (a *AuthStorage) Clear() error {
	errToken := a.store.Remove(KeyAccessToken)
	errUser := a.store.Remove(KeyAuthUser)
	if errToken != nil {
		return errToken
	}
	return errUser
}
