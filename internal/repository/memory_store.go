package repository

import (
	"context"
	"fmt"
	"sync"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/utils"
)

// memoryBacking is the data shared by every session of a MemoryStore
type memoryBacking struct {
	mu       sync.RWMutex
	entries  map[string][]byte
	used     int64
	quota    int64
	sessions map[string]*MemoryStore
}

// MemoryStore is a concurrency-safe in-memory implementation of Store. Sessions
// created with NewSession share its data and see each other's writes as
// external changes, the way browser tabs share one local storage area.
type MemoryStore struct {
	backing *memoryBacking
	id      string
	subs    *subscribers
}

// NewMemoryStore creates a store holding at most quotaBytes of keys and
// values. A quota <= 0 means unlimited.
func NewMemoryStore(quotaBytes int64) *MemoryStore {
	b := &memoryBacking{
		entries:  make(map[string][]byte),
		quota:    quotaBytes,
		sessions: make(map[string]*MemoryStore),
	}
	return b.newSession()
}

// NewSession returns another handle onto the same data
func (s *MemoryStore) NewSession() *MemoryStore {
	return s.backing.newSession()
}

func (b *memoryBacking) newSession() *MemoryStore {
	s := &MemoryStore{backing: b, id: utils.GenerateID(), subs: newSubscribers()}
	b.mu.Lock()
	b.sessions[s.id] = s
	b.mu.Unlock()
	return s
}

// Read returns a copy of the value stored under key
func (s *MemoryStore) Read(ctx context.Context, key string) ([]byte, error) {
	b := s.backing
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.entries[key]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", key, catalogerrors.ErrKeyNotFound)
	}
	return append([]byte(nil), value...), nil
}

// Write stores a copy of value under key and notifies the other sessions
func (s *MemoryStore) Write(ctx context.Context, key string, value []byte) error {
	b := s.backing
	b.mu.Lock()

	if err := ctx.Err(); err != nil {
		b.mu.Unlock()
		return err
	}

	size := int64(len(key) + len(value))
	used := b.used
	if old, ok := b.entries[key]; ok {
		used -= int64(len(key) + len(old))
	}
	if b.quota > 0 && used+size > b.quota {
		b.mu.Unlock()
		return fmt.Errorf("write %s (%d bytes, %d/%d used): %w", key, size, used, b.quota, catalogerrors.ErrQuotaExceeded)
	}

	b.entries[key] = append([]byte(nil), value...)
	b.used = used + size

	others := make([]*MemoryStore, 0, len(b.sessions))
	for id, sess := range b.sessions {
		if id != s.id {
			others = append(others, sess)
		}
	}
	b.mu.Unlock()

	for _, sess := range others {
		sess.subs.notify(key, value)
	}
	return nil
}

// OnExternalChange registers fn for writes to key from other sessions
func (s *MemoryStore) OnExternalChange(key string, fn ChangeFunc) func() {
	return s.subs.add(key, fn)
}

// Usage returns the number of bytes currently held across all keys
func (s *MemoryStore) Usage() int64 {
	s.backing.mu.RLock()
	defer s.backing.mu.RUnlock()
	return s.backing.used
}

// Close detaches this session; the shared data stays available to others
func (s *MemoryStore) Close() error {
	s.backing.mu.Lock()
	defer s.backing.mu.Unlock()
	delete(s.backing.sessions, s.id)
	return nil
}

var _ Store = (*MemoryStore)(nil)
