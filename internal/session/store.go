// Package session issues, resolves and revokes browser sessions.
//
// A session is an opaque server-side token bound to a user ID. The cookie
// carries the token inside a signed JWT so that forged cookies are rejected
// before the store is consulted.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a token is unknown or has expired.
var ErrNotFound = errors.New("session: not found")

// Store persists token to user bindings.
type Store interface {
	Save(ctx context.Context, token string, userID uint, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (uint, error)
	Delete(ctx context.Context, token string) error
}

const redisKeyPrefix = "session:"

// RedisStore keeps sessions under session:<token> with a TTL.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore returns a Redis-backed Store.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, redisKeyPrefix+token, strconv.FormatUint(uint64(userID), 10), ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Lookup(ctx context.Context, token string) (uint, error) {
	raw, err := s.rdb.Get(ctx, redisKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup session: %w", err)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrNotFound
	}
	return uint(id), nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, redisKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

type memoryEntry struct {
	userID    uint
	expiresAt time.Time
}

// MemoryStore is a process-local Store used when Redis is unavailable.
// Sessions do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, token string, userID uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = memoryEntry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, token string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok {
		return 0, ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, token)
		return 0, ErrNotFound
	}
	return e.userID, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}

// Len reports how many sessions are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
