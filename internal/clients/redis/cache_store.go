package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
)

const scanBatch = 200

// CacheStore implements catalog.Store on a redis server.
type CacheStore struct {
	log *logger.Logger
	rdb *goredis.Client
}

// NewCacheStore dials addr and pings it before returning.
func NewCacheStore(log *logger.Logger, addr string) (*CacheStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewCacheStoreFromClient(log, rdb), nil
}

func NewCacheStoreFromClient(log *logger.Logger, rdb *goredis.Client) *CacheStore {
	return &CacheStore{log: log.With("client", "RedisCacheStore"), rdb: rdb}
}

func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *CacheStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, val, ttl).Err()
}

// DeletePrefix removes every key starting with prefix, scanning in batches.
func (s *CacheStore) DeletePrefix(ctx context.Context, prefix string) error {
	var (
		cursor  uint64
		removed int
	)
	match := escapeGlob(prefix) + "*"
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan %q: %w", prefix, err)
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
			removed += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	s.log.Debug("cache keys removed", "prefix", prefix, "count", removed)
	return nil
}

func (s *CacheStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}
