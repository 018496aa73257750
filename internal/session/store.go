// Package session owns the console's authentication lifecycle: it is
// the only code that writes the API client's bearer token or the
// persisted token pair.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/gymflow/console/internal/gymapi"
)

// Storage keys for the persisted token pair. Adapters must use these
// exact keys so sessions survive binary upgrades.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// TokenStore persists the token pair across restarts. Load returns a
// zero pair, not an error, when nothing is stored.
type TokenStore interface {
	Save(ctx context.Context, pair gymapi.TokenPair, ttl time.Duration) error
	Load(ctx context.Context) (gymapi.TokenPair, error)
	Clear(ctx context.Context) error
}

// MemoryTokenStore keeps the pair in process memory. Used in tests and
// when no Redis is configured; sessions then last only until restart.
type MemoryTokenStore struct {
	mu   sync.Mutex
	pair gymapi.TokenPair
	set  bool
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Save(_ context.Context, pair gymapi.TokenPair, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	s.set = true
	return nil
}

func (s *MemoryTokenStore) Load(_ context.Context) (gymapi.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return gymapi.TokenPair{}, nil
	}
	return s.pair, nil
}

func (s *MemoryTokenStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = gymapi.TokenPair{}
	s.set = false
	return nil
}
