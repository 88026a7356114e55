package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/nexuslearn-backend/internal/catalog"
	"github.com/yungbote/nexuslearn-backend/internal/clients/redis"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
)

type Clients struct {
	CacheStore catalog.Store
	redis      *redis.CacheStore
}

// wireClients picks the catalog cache backend: redis when REDIS_ADDR is set,
// the in-process store otherwise.
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return Clients{CacheStore: catalog.NewMemoryStore()}, nil
	}
	store, err := redis.NewCacheStore(log, cfg.RedisAddr)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis cache: %w", err)
	}
	return Clients{CacheStore: store, redis: store}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
}
