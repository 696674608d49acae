package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/MForbesPrim/primith-portal/pkg/logger"
)

// TokenPair is the current credential pair for one tenant context. At most one
// pair is current at a time; a refresh replaces it whole or clears it, never
// leaves it partially updated.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func (p TokenPair) IsZero() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

// Store holds the current token pair. Absence is a valid, expected state and
// Clear on an empty store is a no-op. Implementations must be safe for
// concurrent use; persistence is best-effort.
type Store interface {
	Get() (TokenPair, bool)
	Set(pair TokenPair)
	Clear()
}

// MemoryStore keeps the pair in memory. Used by tests and by the portal
// gateway, which scopes one store to each incoming request's cookies.
type MemoryStore struct {
	mu   sync.RWMutex
	pair TokenPair
	set  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (TokenPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set || s.pair.IsZero() {
		return TokenPair{}, false
	}
	return s.pair, true
}

func (s *MemoryStore) Set(pair TokenPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	s.set = true
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = TokenPair{}
	s.set = false
}

// FileStore persists the pair as JSON at a fixed path, the desktop/CLI
// equivalent of browser-local storage.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get() (TokenPair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return TokenPair{}, false
	}

	var pair TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return TokenPair{}, false
	}
	if pair.IsZero() {
		return TokenPair{}, false
	}
	return pair, true
}

func (s *FileStore) Set(pair TokenPair) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(pair)
	if err != nil {
		return
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		logger.Warn("failed to persist session tokens: ", err)
	}
}

func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to clear session tokens: ", err)
	}
}
