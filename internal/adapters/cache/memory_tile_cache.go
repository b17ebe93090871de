package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryTileCache is an in-process LRU of rendered tiles with a TTL.
type MemoryTileCache struct {
	lru *expirable.LRU[string, []byte]
}

func NewMemoryTileCache(size int, ttl time.Duration) *MemoryTileCache {
	if size <= 0 {
		size = 1024
	}
	return &MemoryTileCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m *MemoryTileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, ok := m.lru.Get(key)
	return b, ok, nil
}

func (m *MemoryTileCache) Put(_ context.Context, key string, png []byte) error {
	m.lru.Add(key, png)
	return nil
}

func (m *MemoryTileCache) Len() int { return m.lru.Len() }
