package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Store abstracts where cached responses live. The in-memory backend is the
// default; Redis is selected when an address is configured so replicas share
// one cache.
type Store interface {
	Get(ctx context.Context, key string) (CachedResponse, bool)
	Set(ctx context.Context, key string, response CachedResponse, ttl time.Duration)
	DeleteMatching(ctx context.Context, substrings ...string)
	Flush(ctx context.Context)
}

type memoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore() Store {
	return &memoryStore{cache: gocache.New(5*time.Minute, 10*time.Minute)}
}

func (s *memoryStore) Get(_ context.Context, key string) (CachedResponse, bool) {
	value, found := s.cache.Get(key)

	if !found {
		return CachedResponse{}, false
	}

	response, ok := value.(CachedResponse)

	return response, ok
}

func (s *memoryStore) Set(_ context.Context, key string, response CachedResponse, ttl time.Duration) {
	s.cache.Set(key, response, ttl)
}

func (s *memoryStore) DeleteMatching(_ context.Context, substrings ...string) {
	for key := range s.cache.Items() {
		if containsAll(key, substrings) {
			s.cache.Delete(key)
		}
	}
}

func (s *memoryStore) Flush(_ context.Context) {
	s.cache.Flush()
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) Store {
	client := redis.NewClient(&redis.Options{Addr: addr})

	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) (CachedResponse, bool) {
	data, err := s.client.Get(ctx, key).Bytes()

	if err != nil {
		return CachedResponse{}, false
	}

	var response CachedResponse

	if err := json.Unmarshal(data, &response); err != nil {
		return CachedResponse{}, false
	}

	return response, true
}

func (s *redisStore) Set(ctx context.Context, key string, response CachedResponse, ttl time.Duration) {
	data, err := json.Marshal(response)

	if err != nil {
		return
	}

	s.client.Set(ctx, key, data, ttl)
}

func (s *redisStore) DeleteMatching(ctx context.Context, substrings ...string) {
	var cursor uint64

	for {
		keys, next, err := s.client.Scan(ctx, cursor, "response:*", 100).Result()

		if err != nil {
			return
		}

		for _, key := range keys {
			if containsAll(key, substrings) {
				s.client.Del(ctx, key)
			}
		}

		if next == 0 {
			return
		}

		cursor = next
	}
}

func (s *redisStore) Flush(ctx context.Context) {
	s.DeleteMatching(ctx)
}

func containsAll(key string, substrings []string) bool {
	for _, substring := range substrings {
		if !strings.Contains(key, substring) {
			return false
		}
	}

	return true
}
