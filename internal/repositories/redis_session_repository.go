package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"taskdesk/internal/entities"
)

const sessionKey = "session:current"

// RedisSessionRepository keeps the current-session pointer in Redis when
// running against the hosted backend.
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) SessionRepositoryInterface {
	return &RedisSessionRepository{client: client, ttl: ttl}
}

func (r *RedisSessionRepository) Save(ctx context.Context, user *entities.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey, payload, r.ttl).Err()
}

func (r *RedisSessionRepository) Current(ctx context.Context) (*entities.User, error) {
	payload, err := r.client.Get(ctx, sessionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var user entities.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *RedisSessionRepository) Clear(ctx context.Context) error {
	return r.client.Del(ctx, sessionKey).Err()
}
