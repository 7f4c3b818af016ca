package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/usersvc/usersvc/internal/model"
)

// Cache keys and TTLs. Entries are derived state with a TTL; absence is
// always a valid, cheap-to-recheck condition.
const (
	// AllUsersKey caches the full user collection.
	AllUsersKey = "users:all"

	userKeyPrefix = "users:id:"

	// AllUsersTTL is the TTL for the cached collection.
	AllUsersTTL = 60 * time.Second

	// UserTTL is the TTL for a cached single record.
	UserTTL = 300 * time.Second
)

// ErrCacheMiss indicates the requested key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// UserKey returns the cache key for a single user record.
func UserKey(id string) string {
	return userKeyPrefix + id
}

// GetAllUsers retrieves the cached user collection.
// Returns ErrCacheMiss if not present.
func (c *Cache) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	data, err := c.client.Get(ctx, AllUsersKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var users []*model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to decode cached users: %w", err)
	}

	return users, nil
}

// SetAllUsers caches the user collection. Empty collections are cached
// too; the collection key has no negative-cache semantics to preserve.
func (c *Cache) SetAllUsers(ctx context.Context, users []*model.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	if err := c.client.SetEx(ctx, AllUsersKey, data, AllUsersTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache users: %w", err)
	}

	return nil
}

// GetUser retrieves a cached user record by id.
// Returns ErrCacheMiss if not present.
func (c *Cache) GetUser(ctx context.Context, id string) (*model.User, error) {
	data, err := c.client.Get(ctx, UserKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode cached user: %w", err)
	}

	return &user, nil
}

// SetUser caches a single user record. Not-found results are never
// cached, so a create for the same id becomes visible on the next read.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	if err := c.client.SetEx(ctx, UserKey(user.ID), data, UserTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}

	return nil
}

// InvalidateUser removes the collection key and the per-id key in one
// pipeline. Deleting an absent key is a no-op, so repeated or reordered
// invalidations are safe.
func (c *Cache) InvalidateUser(ctx context.Context, id string) error {
	pipe := c.client.Pipeline()
	pipe.Del(ctx, AllUsersKey)
	pipe.Del(ctx, UserKey(id))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate user cache: %w", err)
	}

	return nil
}
