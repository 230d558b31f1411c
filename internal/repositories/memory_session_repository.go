package repositories

import (
	"context"
	"sync"

	"taskdesk/internal/entities"
)

// MemorySessionRepository holds the session pointer in process memory.
// Used when neither Redis nor the snapshot store is available to persist
// it; the session then lives as long as the process.
type MemorySessionRepository struct {
	mu   sync.RWMutex
	user *entities.User
}

func NewMemorySessionRepository() SessionRepositoryInterface {
	return &MemorySessionRepository{}
}

func (r *MemorySessionRepository) Save(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user = user
	return nil
}

func (r *MemorySessionRepository) Current(ctx context.Context) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.user, nil
}

func (r *MemorySessionRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user = nil
	return nil
}
