package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte // sessionID -> key -> value
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string][]byte),
	}
}

// Get returns the stored value for a session key.
func (s *MemoryStore) Get(ctx context.Context, sessionID, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.data[sessionID]
	if !ok {
		return nil, false, nil
	}
	val, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, true, nil
}

// Set stores/overwrites the value for a session key.
func (s *MemoryStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, ok := s.data[sessionID]
	if !ok {
		entries = make(map[string][]byte)
		s.data[sessionID] = entries
	}
	entries[key] = stored
	return nil
}

// Remove deletes one key for a session. Missing keys are not an error.
func (s *MemoryStore) Remove(ctx context.Context, sessionID, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if entries, ok := s.data[sessionID]; ok {
		delete(entries, key)
		if len(entries) == 0 {
			delete(s.data, sessionID)
		}
	}
	return nil
}

// RemoveAll deletes every key for a session.
func (s *MemoryStore) RemoveAll(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}
