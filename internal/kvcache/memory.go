package kvcache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

type MemoryConfig struct {
	Capacity int
	// MaxTTL bounds how long any entry can live; per-key TTLs above it are
	// cut short by eviction.
	MaxTTL time.Duration
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store backed by a sharded sturdyc client.
// sturdyc only knows a single TTL, so each entry carries its own deadline
// which is checked on read.
type MemoryStore struct {
	client *sturdyc.Client[memoryEntry]
	now    func() time.Time
}

func NewMemoryStore(cfg MemoryConfig) *MemoryStore {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 10000
	}
	if cfg.MaxTTL <= 0 {
		cfg.MaxTTL = time.Hour
	}
	// Keep at least 100 slots per shard; sturdyc sizes shards as capacity/shards.
	shards := cfg.Capacity / 100
	if shards > 64 {
		shards = 64
	}
	if shards < 1 {
		shards = 1
	}
	return &MemoryStore{
		client: sturdyc.New[memoryEntry](cfg.Capacity, shards, cfg.MaxTTL, 10),
		now:    time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := s.client.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	if !s.now().Before(entry.expiresAt) {
		s.client.Delete(key)
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.client.Set(key, memoryEntry{value: value, expiresAt: s.now().Add(ttl)})
	return nil
}

func (s *MemoryStore) Size() int {
	return s.client.Size()
}
