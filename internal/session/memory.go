package session

import "sync"

// MemoryStore is the default Store: a mutex-guarded process-local map.
// Entries do not survive a restart and are not shared across instances,
// which is acceptable for the single trusted operator it serves.
type MemoryStore struct {
    mu sync.RWMutex
    m  map[string]Identity
}

func NewMemoryStore() *MemoryStore {
    return &MemoryStore{m: make(map[string]Identity)}
}

func (s *MemoryStore) Get(token string) (Identity, bool) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    id, ok := s.m[token]
    return id, ok
}

func (s *MemoryStore) Put(token string, id Identity) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.m[token] = id
}

func (s *MemoryStore) Delete(token string) {
    s.mu.Lock()
    defer s.mu.Unlock()
    delete(s.m, token)
}
