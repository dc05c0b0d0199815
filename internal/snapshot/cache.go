// Package snapshot implements the version-gated collection cache. A single
// cheap probe of the remote version marker decides hit or miss for every
// collection at once: any committed write anywhere bumps the marker, so a
// matching saved version proves the local payload is still fresh.
package snapshot

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/classboard/classboard-api/internal/observability"
)

// defaultEvictCount is how many of the oldest entries are dropped when a
// cache write runs out of memory.
const defaultEvictCount = 4

// VersionProbe reads the remote last-updated marker.
type VersionProbe interface {
	LastUpdated(ctx context.Context) (int64, error)
}

// Cache stores fetched collections in Redis, each entry tagged with the
// remote version it was fetched under.
type Cache struct {
	client     *redis.Client
	probe      VersionProbe
	ttl        time.Duration
	namespace  string
	evictCount int
	logger     zerolog.Logger
	now        func() time.Time
}

// New builds a snapshot cache. A nil client degrades every read to a direct
// fetch.
func New(client *redis.Client, probe VersionProbe, ttl time.Duration, logger zerolog.Logger) *Cache {
	return &Cache{
		client:     client,
		probe:      probe,
		ttl:        ttl,
		namespace:  "snapshot",
		evictCount: defaultEvictCount,
		logger:     logger.With().Str("component", "snapshot_cache").Logger(),
		now:        time.Now,
	}
}

type entry struct {
	SavedVersion int64           `json:"saved_version"`
	FetchedAt    int64           `json:"fetched_at"`
	Payload      json.RawMessage `json:"payload"`
}

// GetOrFetch returns the cached collection when its saved version still
// matches the remote marker, otherwise invokes fetch and stores the result.
// A failing version probe degrades to always-fetch rather than blocking
// reads; a corrupted entry is removed and treated as a miss; a full cache
// evicts its oldest entries and retries the write once, then gives up
// silently (the fetch itself already succeeded).
func GetOrFetch[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	version := int64(-1)
	probeOK := false
	if c.probe != nil {
		if v, err := c.probe.LastUpdated(ctx); err == nil {
			version = v
			probeOK = true
		} else {
			c.logger.Warn().Err(err).Str("collection", key).Msg("version probe failed, fetching directly")
		}
	}

	fullKey := c.key(key)

	if c.client != nil && probeOK {
		raw, err := c.client.Get(ctx, fullKey).Result()
		if err == nil {
			var stored entry
			if unmarshalErr := json.Unmarshal([]byte(raw), &stored); unmarshalErr != nil {
				c.client.Del(ctx, fullKey)
			} else if stored.SavedVersion == version {
				var data []T
				if payloadErr := json.Unmarshal(stored.Payload, &data); payloadErr != nil {
					c.client.Del(ctx, fullKey)
				} else {
					observability.SnapshotLookups().WithLabelValues(key, "hit").Inc()
					c.logger.Debug().Str("collection", key).Int64("version", version).Msg("snapshot hit")
					return data, nil
				}
			}
		} else if err != redis.Nil {
			c.logger.Warn().Err(err).Str("collection", key).Msg("failed to read snapshot")
		}
	}

	observability.SnapshotLookups().WithLabelValues(key, "miss").Inc()

	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if c.client != nil && probeOK {
		c.store(ctx, key, fullKey, version, data)
	}

	return data, nil
}

func (c *Cache) store(ctx context.Context, key, fullKey string, version int64, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		c.logger.Warn().Err(err).Str("collection", key).Msg("failed to encode snapshot")
		return
	}

	stored, err := json.Marshal(entry{
		SavedVersion: version,
		FetchedAt:    c.now().UnixMilli(),
		Payload:      payload,
	})
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, fullKey, stored, c.ttl).Err(); err != nil {
		if !isQuotaError(err) {
			c.logger.Warn().Err(err).Str("collection", key).Msg("failed to store snapshot")
			return
		}

		c.evictOldest(ctx)
		if retryErr := c.client.Set(ctx, fullKey, stored, c.ttl).Err(); retryErr != nil {
			c.logger.Warn().Err(retryErr).Str("collection", key).Msg("snapshot store failed after eviction")
		}
	}
}

// Invalidate drops one collection's entry so the next read refetches
// regardless of version match.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c.client == nil {
		return
	}
	c.client.Del(ctx, c.key(key))
}

// InvalidateAll drops every entry under this cache's namespace.
func (c *Cache) InvalidateAll(ctx context.Context) {
	for _, key := range c.scanKeys(ctx) {
		c.client.Del(ctx, key)
	}
}

func (c *Cache) evictOldest(ctx context.Context) {
	keys := c.scanKeys(ctx)

	type aged struct {
		key       string
		fetchedAt int64
	}
	entries := make([]aged, 0, len(keys))
	for _, key := range keys {
		raw, err := c.client.Get(ctx, key).Result()
		if err != nil {
			continue
		}
		var stored entry
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			c.client.Del(ctx, key)
			continue
		}
		entries = append(entries, aged{key: key, fetchedAt: stored.FetchedAt})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].fetchedAt < entries[j].fetchedAt })

	limit := c.evictCount
	if limit > len(entries) {
		limit = len(entries)
	}
	for i := 0; i < limit; i++ {
		c.client.Del(ctx, entries[i].key)
	}

	c.logger.Info().Int("evicted", limit).Msg("evicted oldest snapshot entries")
}

func (c *Cache) scanKeys(ctx context.Context) []string {
	if c.client == nil {
		return nil
	}

	var keys []string
	iter := c.client.Scan(ctx, 0, c.namespace+":*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("snapshot key scan failed")
	}
	return keys
}

func (c *Cache) key(collection string) string {
	return c.namespace + ":" + collection
}

func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToUpper(err.Error())
	return strings.Contains(message, "OOM") || strings.Contains(message, "MAXMEMORY")
}
