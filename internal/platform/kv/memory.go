// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// memoryCleanupInterval is how often expired entries are swept from memory.
const memoryCleanupInterval = time.Minute

// MemoryStore implements [Store] on top of go-cache.
//
// go-cache is safe for concurrent use, but Increment has to create-or-add
// as one step, so a mutex serialises the read-modify-write.
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, memoryCleanupInterval)}
}

// Increment implements [Store].
func (s *MemoryStore) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value, expiresAt, found := s.cache.GetWithExpiration(key); found {
		next := value.(int64) + 1
		remaining := cache.NoExpiration
		if !expiresAt.IsZero() {
			remaining = time.Until(expiresAt)
			if remaining <= 0 {
				remaining = ttl
				next = 1
			}
		}
		s.cache.Set(key, next, remaining)
		return next, nil
	}

	s.cache.Set(key, int64(1), ttl)
	return 1, nil
}

// Get implements [Store].
func (s *MemoryStore) Get(_ context.Context, key string) (int64, bool, error) {
	value, found := s.cache.Get(key)
	if !found {
		return 0, false, nil
	}
	return value.(int64), true, nil
}

// Set implements [Store].
func (s *MemoryStore) Set(_ context.Context, key string, value int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Set(key, value, ttl)
	return nil
}

// Delete implements [Store].
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		s.cache.Delete(key)
	}
	return nil
}
