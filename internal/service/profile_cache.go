package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"profile-api/internal/domain"
)

// ProfileCache guarda registros de perfil para acelerar lecturas.
type ProfileCache interface {
	Get(userID string) (domain.Profile, bool, error)
	Set(profile domain.Profile, ttl time.Duration) error
	Invalidate(userID string) error
}

type memoryCacheEntry struct {
	profile   domain.Profile
	expiresAt time.Time
}

type memoryProfileCache struct {
	mu    sync.Mutex
	items map[string]memoryCacheEntry
}

func NewMemoryProfileCache() ProfileCache {
	return &memoryProfileCache{
		items: make(map[string]memoryCacheEntry),
	}
}

func (c *memoryProfileCache) Get(userID string) (domain.Profile, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.items[userID]
	if !ok {
		return domain.Profile{}, false, nil
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(c.items, userID)
		return domain.Profile{}, false, nil
	}
	return entry.profile, true, nil
}

func (c *memoryProfileCache) Set(profile domain.Profile, ttl time.Duration) error {
	if strings.TrimSpace(profile.UserID) == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[profile.UserID] = memoryCacheEntry{
		profile:   profile,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return nil
}

func (c *memoryProfileCache) Invalidate(userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, userID)
	return nil
}

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisProfileCache struct {
	client redisKVClient
	prefix string
}

func NewRedisProfileCache(client *redis.Client) ProfileCache {
	if client == nil {
		return nil
	}
	return newRedisProfileCache(client)
}

func newRedisProfileCache(client redisKVClient) ProfileCache {
	return &redisProfileCache{
		client: client,
		prefix: "profile:rec:",
	}
}

func (c *redisProfileCache) Get(userID string) (domain.Profile, bool, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Profile{}, false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	raw, err := c.client.Get(ctx, c.prefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Profile{}, false, nil
	}
	if err != nil {
		return domain.Profile{}, false, err
	}
	var profile domain.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return domain.Profile{}, false, err
	}
	return profile, true, nil
}

func (c *redisProfileCache) Set(profile domain.Profile, ttl time.Duration) error {
	if strings.TrimSpace(profile.UserID) == "" {
		return nil
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.prefix+profile.UserID, raw, ttl).Err()
}

func (c *redisProfileCache) Invalidate(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return c.client.Del(ctx, c.prefix+userID).Err()
}
