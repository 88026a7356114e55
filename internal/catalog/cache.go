package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/nexuslearn-backend/internal/domain/resources"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
)

const cacheKeyPrefix = "catalog:records:"

// Store is a byte cache with per-key expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

const sharedFetchTimeout = 10 * time.Second

// CachedSource is a read-through TTL cache in front of a RecordSource.
type CachedSource struct {
	next  RecordSource
	store Store
	ttl   time.Duration
	log   *logger.Logger
	group singleflight.Group
}

func NewCachedSource(next RecordSource, store Store, ttl time.Duration, baseLog *logger.Logger) *CachedSource {
	if store == nil {
		store = NewMemoryStore()
	}
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &CachedSource{next: next, store: store, ttl: ttl, log: baseLog.With("component", "CatalogCache")}
}

func CacheKey(q Query) string {
	return cacheKeyPrefix + string(q.Type) + ":" + resources.SubjectKey(q.Subject) + ":" + string(q.Section) + ":" + q.DataKeyAlternative
}

func (c *CachedSource) FindActiveResources(ctx context.Context, q Query) ([]*resources.Resource, error) {
	key := CacheKey(q)
	if raw, ok, err := c.store.Get(ctx, key); err != nil {
		c.log.Warn("catalog cache read failed", "key", key, "error", err)
	} else if ok {
		var recs []*resources.Resource
		if err := json.Unmarshal(raw, &recs); err == nil {
			return recs, nil
		}
		c.log.Warn("catalog cache entry undecodable", "key", key)
	}

	// The shared fetch outlives any single caller; waiters keep their own ctx.
	ch := c.group.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		recs, err := c.next.FindActiveResources(fetchCtx, q)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(recs); err == nil {
			if err := c.store.Set(fetchCtx, key, raw, c.ttl); err != nil {
				c.log.Warn("catalog cache write failed", "key", key, "error", err)
			}
		}
		return recs, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneRecords(res.Val.([]*resources.Resource)), nil
	}
}

// Invalidate drops cached partitions for qualification type t, or all of them
// when t is empty. Untyped queries span every type and are always dropped.
func (c *CachedSource) Invalidate(ctx context.Context, t QualificationType) error {
	if t == "" {
		return c.store.DeletePrefix(ctx, cacheKeyPrefix)
	}
	if err := c.store.DeletePrefix(ctx, cacheKeyPrefix+string(t)+":"); err != nil {
		return err
	}
	return c.store.DeletePrefix(ctx, cacheKeyPrefix+":")
}

func cloneRecords(in []*resources.Resource) []*resources.Resource {
	out := make([]*resources.Resource, len(in))
	for i, r := range in {
		if r == nil {
			continue
		}
		cp := *r
		out[i] = &cp
	}
	return out
}

type memoryItem struct {
	val     []byte
	expires time.Time
}

// MemoryStore is the in-process Store used when no redis is configured.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]memoryItem{}, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	if !it.expires.IsZero() && !m.now().Before(it.expires) {
		delete(m.items, key)
		return nil, false, nil
	}
	return append([]byte(nil), it.val...), true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := memoryItem{val: append([]byte(nil), val...)}
	if ttl > 0 {
		it.expires = m.now().Add(ttl)
	}
	m.items[key] = it
	return nil
}

func (m *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			delete(m.items, k)
		}
	}
	return nil
}
