package internal

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
)

// Store persists subscription snapshots per user and the account list.
// Loads return fresh copies; callers may modify them freely.
type Store interface {
	LoadSubscriptions(ctx context.Context, userID string) ([]Subscription, error)
	SaveSubscriptions(ctx context.Context, userID string, subs []Subscription) error
	LoadUsers(ctx context.Context) ([]Account, error)
	SaveUsers(ctx context.Context, users []Account) error
	Close() error
}

// Backend names accepted by OpenStore.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Backends lists the available store backends.
var Backends = []string{BackendJSON, BackendSQLite, BackendMemory}

// OpenStore creates the store selected by backend, rooted at dataDir.
func OpenStore(ctx context.Context, backend, dataDir string, log *slog.Logger) (Store, error) {
	log = log.With("component", "store", "backend", backend)
	switch backend {
	case BackendJSON, "":
		return NewFileStore(dataDir, log)
	case BackendSQLite:
		return NewSQLiteStore(ctx, filepath.Join(dataDir, "tracker.db"), log)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s (available: %v)", backend, Backends)
	}
}

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	subs  map[string][]Subscription
	users []Account
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[string][]Subscription)}
}

func (s *MemoryStore) LoadSubscriptions(_ context.Context, userID string) ([]Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Subscription(nil), s.subs[userID]...), nil
}

func (s *MemoryStore) SaveSubscriptions(_ context.Context, userID string, subs []Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[userID] = append([]Subscription(nil), subs...)
	return nil
}

func (s *MemoryStore) LoadUsers(_ context.Context) ([]Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Account(nil), s.users...), nil
}

func (s *MemoryStore) SaveUsers(_ context.Context, users []Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append([]Account(nil), users...)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
