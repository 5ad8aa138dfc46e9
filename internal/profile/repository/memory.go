package repository

import (
	"context"
	"sync"

	"github.com/markhub/markhub/internal/profile"
)

// MemoryRepo is an in-memory Repository used by unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]profile.Profile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]profile.Profile)}
}

func (m *MemoryRepo) Get(ctx context.Context, uid string) (*profile.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[uid]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (m *MemoryRepo) Set(ctx context.Context, uid string, p profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[uid] = p
	return nil
}

func (m *MemoryRepo) All(ctx context.Context) (map[string]*profile.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*profile.Profile, len(m.store))
	for uid, p := range m.store {
		cp := p
		out[uid] = &cp
	}
	return out, nil
}

func (m *MemoryRepo) DisplayNameTaken(ctx context.Context, uid, displayName string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for owner, p := range m.store {
		if owner == uid || p.DisplayName == nil {
			continue
		}
		if *p.DisplayName == displayName {
			return true, nil
		}
	}
	return false, nil
}
