package repositories

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// MemoryCacheRepository is the cache used when no Redis address is
// configured (the local storage driver runs without external services).
type MemoryCacheRepository struct {
	mu      sync.Mutex
	entries map[string]memoryCacheEntry
}

type memoryCacheEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryCacheRepository() CacheRepositoryInterface {
	return &MemoryCacheRepository{entries: make(map[string]memoryCacheEntry)}
}

func (r *MemoryCacheRepository) getLocked(key string) (memoryCacheEntry, bool) {
	entry, ok := r.entries[key]
	if !ok {
		return memoryCacheEntry{}, false
	}
	if !entry.expiresAt.IsZero() && entry.expiresAt.Before(time.Now()) {
		delete(r.entries, key)
		return memoryCacheEntry{}, false
	}
	return entry, true
}

func (r *MemoryCacheRepository) Get(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.getLocked(key)
	if !ok {
		return "", redis.Nil
	}
	return entry.value, nil
}

func (r *MemoryCacheRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := memoryCacheEntry{value: fmt.Sprint(value)}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}
	r.entries[key] = entry
	return nil
}

func (r *MemoryCacheRepository) Del(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range keys {
		delete(r.entries, key)
	}
	return nil
}

func (r *MemoryCacheRepository) Incr(ctx context.Context, key string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, _ := r.getLocked(key)
	n, _ := strconv.ParseInt(entry.value, 10, 64)
	n++
	entry.value = strconv.FormatInt(n, 10)
	r.entries[key] = entry
	return n, nil
}

func (r *MemoryCacheRepository) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.getLocked(key)
	if !ok {
		return false, nil
	}
	entry.expiresAt = time.Now().Add(expiration)
	r.entries[key] = entry
	return true, nil
}
