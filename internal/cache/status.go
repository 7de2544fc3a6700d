package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"internportal-backend/internal/models"
)

const statusKeyPrefix = "user_status:"

// StatusCache holds the last-fetched remote status per user for a short
// interval. It is volatile: nothing here survives a restart, and writes
// to an assignment invalidate the entry so a re-read never serves state
// older than the mutation.
type StatusCache interface {
	Get(ctx context.Context, userID string) (*models.UserStatus, bool)
	Set(ctx context.Context, userID string, status *models.UserStatus)
	Delete(ctx context.Context, userID string)
}

// ─── Redis-backed cache ───

type RedisCache struct {
	rds *redis.Client
	ttl time.Duration
}

func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisCache{rds: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, userID string) (*models.UserStatus, bool) {
	raw, err := c.rds.Get(ctx, statusKeyPrefix+userID).Result()
	if err != nil {
		return nil, false
	}
	var status models.UserStatus
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		return nil, false
	}
	return &status, true
}

func (c *RedisCache) Set(ctx context.Context, userID string, status *models.UserStatus) {
	raw, err := json.Marshal(status)
	if err != nil {
		return
	}
	c.rds.Set(ctx, statusKeyPrefix+userID, raw, c.ttl)
}

func (c *RedisCache) Delete(ctx context.Context, userID string) {
	c.rds.Del(ctx, statusKeyPrefix+userID)
}

func (c *RedisCache) Close() error {
	return c.rds.Close()
}

// ─── In-process cache (no Redis configured) ───

type memoryEntry struct {
	status  *models.UserStatus
	expires time.Time
}

type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (c *MemoryCache) Get(ctx context.Context, userID string) (*models.UserStatus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		delete(c.entries, userID)
		return nil, false
	}
	return entry.status, true
}

func (c *MemoryCache) Set(ctx context.Context, userID string, status *models.UserStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = memoryEntry{status: status, expires: time.Now().Add(c.ttl)}
}

func (c *MemoryCache) Delete(ctx context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}
