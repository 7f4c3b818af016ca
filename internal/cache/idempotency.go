package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idemKeyPrefix = "idem:"

	// IdempotencyTTL is how long a stored response owns its key.
	IdempotencyTTL = time.Hour
)

// StoredResponse is the response envelope recorded for an idempotency key.
type StoredResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyKey returns the Redis key for a client-supplied token.
func IdempotencyKey(token string) string {
	return idemKeyPrefix + token
}

// GetStoredResponse returns the response previously recorded for the token.
// Returns ErrCacheMiss when no response is stored.
func (c *Cache) GetStoredResponse(ctx context.Context, token string) (*StoredResponse, error) {
	data, err := c.client.Get(ctx, IdempotencyKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var stored StoredResponse
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode stored response: %w", err)
	}

	return &stored, nil
}

// StoreResponse records a response under the token with SET NX: the first
// completed response owns the slot until the TTL expires, it is never
// overwritten. Concurrent requests that both executed converge on whichever
// response landed first.
func (c *Cache) StoreResponse(ctx context.Context, token string, resp *StoredResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode stored response: %w", err)
	}

	if err := c.client.SetNX(ctx, IdempotencyKey(token), data, IdempotencyTTL).Err(); err != nil {
		return fmt.Errorf("failed to store idempotent response: %w", err)
	}

	return nil
}
