// Package cache memoizes compile results by source hash, backed by
// Redis behind a small interface narrowed to the two operations a
// compile cache needs: Get and Set.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache: miss")

// Entry is what gets cached for one source text: the full Result the
// driver produced, so a cache hit skips parse/analyze/asmgen entirely.
type Entry struct {
	TAC      string `json:"tac"`
	Assembly string `json:"assembly"`
}

// Store is the narrow interface cmd/triadc and pkg/server depend on, so tests (and
// a future alternate backend) can substitute an in-memory version
// instead of a live Redis server.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error
}

// KeyFor derives the cache key for a compile: the hex sha256 of the
// source text. Two identical programs always hash to the same key,
// which is what makes TestCompileRoundTripIsIdempotent-style reuse
// safe across process restarts, not just within one Driver instance.
func KeyFor(source string) string {
	sum := sha256.Sum256([]byte(source))
	return "triadc:compile:" + hex.EncodeToString(sum[:])
}

// RedisStore is the production Store, backed by a go-redis universal
// client, which works against standalone, sentinel, or cluster
// deployments identically.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps an already-configured go-redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisStoreFromAddr builds a single-node client for addr (as
// config.Config.RedisAddr names it).
func NewRedisStoreFromAddr(addr string) *RedisStore {
	return NewRedisStore(redis.NewClient(&redis.Options{Addr: addr}))
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{}, ErrMiss
		}
		return Entry{}, err
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, ttl).Err()
}
