package results

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	run     *Run
	expires time.Time
}

// MemoryStore keeps runs in process, for single-instance deployments and tests
type MemoryStore struct {
	mu   sync.RWMutex
	ttl  time.Duration
	runs map[string]memoryEntry
	now  func() time.Time
}

// NewMemoryStore creates a store whose entries expire after ttl (0 = never)
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:  ttl,
		runs: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

func (m *MemoryStore) Put(ctx context.Context, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{run: run}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}
	m.runs[run.ID] = entry
	m.evictLocked()
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Run, error) {
	m.mu.RLock()
	entry, ok := m.runs[id]
	m.mu.RUnlock()

	if !ok || m.expired(entry) {
		return nil, ErrNotFound
	}
	return entry.run, nil
}

func (m *MemoryStore) expired(e memoryEntry) bool {
	return !e.expires.IsZero() && !m.now().Before(e.expires)
}

func (m *MemoryStore) evictLocked() {
	for id, e := range m.runs {
		if m.expired(e) {
			delete(m.runs, id)
		}
	}
}
