package rates

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repository used by unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]map[string]int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]map[string]int)}
}

func (m *MemoryRepo) Get(ctx context.Context, docID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	votes, ok := m.store[docID]
	if !ok {
		return nil, nil
	}
	cp := make(map[string]int, len(votes))
	for uid, v := range votes {
		cp[uid] = v
	}
	return &Record{Votes: cp}, nil
}

func (m *MemoryRepo) SetVote(ctx context.Context, docID, uid string, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store[docID] == nil {
		m.store[docID] = map[string]int{}
	}
	m.store[docID][uid] = value
	return nil
}
