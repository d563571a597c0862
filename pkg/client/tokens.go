package client

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/traitforge/disc-engine/internal/models"
)

// TokenStore persists the access/refresh token pair between requests.
// Load returns (nil, nil) when no pair is stored.
type TokenStore interface {
	Load() (*models.TokenPair, error)
	Save(pair *models.TokenPair) error
	Clear() error
}

// MemoryTokenStore keeps the token pair in process memory. Suitable for
// short-lived tools and tests.
type MemoryTokenStore struct {
	mu   sync.Mutex
	pair *models.TokenPair
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load() (*models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pair == nil {
		return nil, nil
	}
	copied := *s.pair
	return &copied, nil
}

func (s *MemoryTokenStore) Save(pair *models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *pair
	s.pair = &copied
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = nil
	return nil
}

// FileTokenStore persists the token pair as a JSON file so sessions survive
// process restarts.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

// NewFileTokenStore creates a token store backed by the given file path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Load() (*models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var pair models.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &pair, nil
}

func (s *FileTokenStore) Save(pair *models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
