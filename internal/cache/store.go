package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	subjectKeyPrefix  = "gymvy:user:subject:%s"
	usernameKeyPrefix = "gymvy:user:username:%s"

	// IdentityTTL bounds how long subject and username lookups stay cached.
	IdentityTTL = 5 * time.Minute
)

// SubjectKey caches the local user id for an external auth subject.
func SubjectKey(subject string) string {
	return fmt.Sprintf(subjectKeyPrefix, subject)
}

// UsernameKey caches the local user id for a normalized username.
func UsernameKey(username string) string {
	return fmt.Sprintf(usernameKeyPrefix, username)
}

// Store is a nil-safe JSON cache over Redis. A Store without a client
// always misses and never writes.
type Store struct {
	rdb *redis.Client
}

// NewStore wraps rdb, which may be nil.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// GetJSON loads key into dest and reports whether it was present.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if s == nil || s.rdb == nil {
		return false, nil
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores v under key for ttl.
func (s *Store) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, b, ttl).Err()
}

// Aside serves dest from cache, or calls fetch to fill it and stores the
// result best-effort. Cache read errors fall through to fetch.
func (s *Store) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if found, err := s.GetJSON(ctx, key, dest); err == nil && found {
		return nil
	}
	if err := fetch(); err != nil {
		return err
	}
	_ = s.SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate deletes keys, ignoring failures.
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	if s == nil || s.rdb == nil || len(keys) == 0 {
		return
	}
	s.rdb.Del(ctx, keys...)
}
