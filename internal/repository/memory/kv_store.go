// Package memory is an ephemeral repository.KVStore.
package memory

import (
	"context"
	"sync"

	"github.com/vytor/learnearn/internal/repository"
)

type kvStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewKVStore() repository.KVStore {
	return &kvStore{entries: make(map[string][]byte)}
}

func (s *kvStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *kvStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = append([]byte(nil), value...)
	return nil
}

func (s *kvStore) Close() error { return nil }
