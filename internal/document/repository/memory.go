package repository

import (
	"context"
	"sync"

	"github.com/markhub/markhub/internal/document"
)

// MemoryRepo is an in-memory Repository used by unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]document.Map
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]document.Map)}
}

func (m *MemoryRepo) GetMap(ctx context.Context, uid string) (document.Map, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs, ok := m.store[uid]
	if !ok {
		return nil, ErrNotFound
	}
	out := make(document.Map, len(docs))
	for id, d := range docs {
		out[id] = d
	}
	return out, nil
}

func (m *MemoryRepo) SetEntry(ctx context.Context, uid, id string, doc document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store[uid] == nil {
		m.store[uid] = document.Map{}
	}
	m.store[uid][id] = doc
	return nil
}

func (m *MemoryRepo) SetEntryIfStamp(ctx context.Context, uid, id string, doc document.Document, expectedMDate string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.store[uid][id]
	if !ok || cur.MDate != expectedMDate {
		return ErrStale
	}
	m.store[uid][id] = doc
	return nil
}

func (m *MemoryRepo) RemoveEntry(ctx context.Context, uid, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[uid][id]; !ok {
		return ErrNotFound
	}
	delete(m.store[uid], id)
	return nil
}

func (m *MemoryRepo) All(ctx context.Context) (map[string]document.Map, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]document.Map, len(m.store))
	for uid, docs := range m.store {
		cp := make(document.Map, len(docs))
		for id, d := range docs {
			cp[id] = d
		}
		out[uid] = cp
	}
	return out, nil
}

func (m *MemoryRepo) PermanentNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, docs := range m.store {
		for id, doc := range docs {
			if id != excludeID && doc.Visibility == document.VisibilityPermanent && doc.Name == name {
				return true, nil
			}
		}
	}
	return false, nil
}
