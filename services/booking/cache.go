package booking

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"wheelstrust/models"
	"wheelstrust/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AvailabilityCache stores computed slot grids per (provider, date).
//
// Every booking write for a pair calls Invalidate, which bumps the pair's generation.
// A miss returns the generation observed before the database read; Set stores the grid
// only while that generation is still current, so a grid computed before a write can
// never overwrite the invalidation that write performed.
type AvailabilityCache interface {
	Get(ctx context.Context, providerID string, date time.Time) (slots []models.SlotAvailability, gen int64, ok bool)
	Set(ctx context.Context, providerID string, date time.Time, gen int64, slots []models.SlotAvailability)
	Invalidate(ctx context.Context, providerID string, date time.Time)
}

// NoopAvailabilityCache never hits.
type NoopAvailabilityCache struct{}

func (NoopAvailabilityCache) Get(context.Context, string, time.Time) ([]models.SlotAvailability, int64, bool) {
	return nil, 0, false
}
func (NoopAvailabilityCache) Set(context.Context, string, time.Time, int64, []models.SlotAvailability) {
}
func (NoopAvailabilityCache) Invalidate(context.Context, string, time.Time) {}

// genTTL bounds how long an idle generation counter is kept. It must outlive any single
// availability read; it is refreshed on every write.
const genTTL = 24 * time.Hour

// setIfGen writes KEYS[1] only when the generation in KEYS[2] still equals ARGV[1].
var setIfGen = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// RedisAvailabilityCache keeps slot grids in Redis with a TTL.
type RedisAvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisAvailabilityCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisAvailabilityCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisAvailabilityCache{client: client, ttl: ttl, logger: logger}
}

// AvailabilityKey is the cache key for one provider and calendar day.
func AvailabilityKey(providerID string, date time.Time) string {
	return utils.AvailabilityCachePrefix + providerID + ":" + models.FormatCalendarDate(date)
}

// AvailabilityGenKey is the write generation counter for one provider and calendar day.
func AvailabilityGenKey(providerID string, date time.Time) string {
	return utils.AvailabilityGenPrefix + providerID + ":" + models.FormatCalendarDate(date)
}

func (c *RedisAvailabilityCache) Get(ctx context.Context, providerID string, date time.Time) ([]models.SlotAvailability, int64, bool) {
	vals, err := c.client.MGet(ctx, AvailabilityGenKey(providerID, date), AvailabilityKey(providerID, date)).Result()
	if err != nil {
		c.logger.Warn("availability cache read failed", zap.String("providerId", providerID), zap.Error(err))
		return nil, -1, false
	}

	var gen int64
	if raw, ok := vals[0].(string); ok {
		if gen, err = strconv.ParseInt(raw, 10, 64); err != nil {
			c.logger.Warn("availability generation corrupt", zap.String("providerId", providerID), zap.Error(err))
			return nil, -1, false
		}
	}

	raw, ok := vals[1].(string)
	if !ok {
		return nil, gen, false
	}
	var slots []models.SlotAvailability
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		c.logger.Warn("availability cache entry corrupt", zap.String("providerId", providerID), zap.Error(err))
		return nil, gen, false
	}
	return slots, gen, true
}

// Set stores slots unless the pair was invalidated after gen was read. A negative gen
// (the read failed) never stores.
func (c *RedisAvailabilityCache) Set(ctx context.Context, providerID string, date time.Time, gen int64, slots []models.SlotAvailability) {
	if gen < 0 || c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	keys := []string{AvailabilityKey(providerID, date), AvailabilityGenKey(providerID, date)}
	err = setIfGen.Run(ctx, c.client, keys, strconv.FormatInt(gen, 10), raw, c.ttl.Milliseconds()).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("availability cache write failed", zap.String("providerId", providerID), zap.Error(err))
	}
}

func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, providerID string, date time.Time) {
	genKey := AvailabilityGenKey(providerID, date)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, genTTL)
		pipe.Del(ctx, AvailabilityKey(providerID, date))
		return nil
	})
	if err != nil {
		c.logger.Warn("availability cache invalidation failed", zap.String("providerId", providerID), zap.Error(err))
	}
}

// MemoryAvailabilityCache is an in-process AvailabilityCache with the same generation
// semantics as the Redis one. Entries never expire.
type MemoryAvailabilityCache struct {
	mu      sync.Mutex
	entries map[string][]models.SlotAvailability
	gens    map[string]int64
}

func NewMemoryAvailabilityCache() *MemoryAvailabilityCache {
	return &MemoryAvailabilityCache{
		entries: map[string][]models.SlotAvailability{},
		gens:    map[string]int64{},
	}
}

func (c *MemoryAvailabilityCache) Get(_ context.Context, providerID string, date time.Time) ([]models.SlotAvailability, int64, bool) {
	key := AvailabilityKey(providerID, date)
	c.mu.Lock()
	defer c.mu.Unlock()
	slots, ok := c.entries[key]
	if !ok {
		return nil, c.gens[key], false
	}
	return append([]models.SlotAvailability(nil), slots...), c.gens[key], true
}

func (c *MemoryAvailabilityCache) Set(_ context.Context, providerID string, date time.Time, gen int64, slots []models.SlotAvailability) {
	key := AvailabilityKey(providerID, date)
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen < 0 || c.gens[key] != gen {
		return
	}
	c.entries[key] = append([]models.SlotAvailability(nil), slots...)
}

func (c *MemoryAvailabilityCache) Invalidate(_ context.Context, providerID string, date time.Time) {
	key := AvailabilityKey(providerID, date)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[key]++
	delete(c.entries, key)
}
