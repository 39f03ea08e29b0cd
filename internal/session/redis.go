package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eximroyals/storefront/pkg/database"
	apperrors "github.com/eximroyals/storefront/pkg/errors"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis, expiring them with the key TTL.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Save writes the session with a TTL matching its expiry.
func (r *RedisStore) Save(ctx context.Context, s *Session) (err error) {
	ctx, end := database.TraceCommand(ctx, "SET")
	defer func() { end(err) }()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return apperrors.InvalidInput("session already expired")
	}
	if err := r.client.Set(ctx, keyPrefix+s.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Get loads a session by id.
func (r *RedisStore) Get(ctx context.Context, id string) (s *Session, err error) {
	ctx, end := database.TraceCommand(ctx, "GET")
	defer func() { end(err) }()

	data, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("session", id)
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var out Session
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &out, nil
}

// Delete removes a session by id.
func (r *RedisStore) Delete(ctx context.Context, id string) (err error) {
	ctx, end := database.TraceCommand(ctx, "DEL")
	defer func() { end(err) }()

	if err := r.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
