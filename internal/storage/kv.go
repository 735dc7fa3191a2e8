// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// Store is the persistence adapter used by the conversation store and the
// settings screen. Values are JSON-encoded by the implementation.
//
// GetItem unmarshals the stored value into dest and reports whether the key
// existed; a missing key is (false, nil), not an error. RemoveItem is a
// no-op for a missing key.
type Store interface {
	GetItem(ctx context.Context, key string, dest any) (bool, error)
	SetItem(ctx context.Context, key string, value any) error
	RemoveItem(ctx context.Context, key string) error
	Close() error
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore is an in-memory Store for tests and --ephemeral mode.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

// GetItem implements Store.
func (s *MemoryStore) GetItem(_ context.Context, key string, dest any) (bool, error) {
	s.mu.RLock()
	data, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetItem implements Store.
func (s *MemoryStore) SetItem(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items[key] = data
	s.mu.Unlock()
	return nil
}

// RemoveItem implements Store.
func (s *MemoryStore) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
