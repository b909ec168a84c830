package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/innovatun/console/internal/config"
	"github.com/innovatun/console/internal/records"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Snapshot collections.
const (
	CollectionSubscriptions = "subscriptions"
	CollectionCustomers     = "customers"
)

const keyPrefix = "console:snapshot:"

type Params struct {
	fx.In

	Config config.Config
	Holder *config.ConsoleConfigHolder
	Log    *zap.Logger
	Redis  *redis.Client `optional:"true"`
}

// SnapshotCache keeps the most recent successfully fetched raw collections.
// The whole collection is replaced on every successful fetch; there is no
// incremental patching. A nil redis client turns every call into a no-op.
type SnapshotCache struct {
	redis  *redis.Client
	holder *config.ConsoleConfigHolder
	log    *zap.Logger
}

func NewSnapshotCache(p Params) *SnapshotCache {
	return &SnapshotCache{
		redis:  p.Redis,
		holder: p.Holder,
		log:    p.Log.Named("cache.snapshot"),
	}
}

// Store replaces the cached collection wholesale.
func (c *SnapshotCache) Store(ctx context.Context, collection string, rows []records.RawRecord) error {
	if c == nil || c.redis == nil {
		return nil
	}
	encoded, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	ttl := c.ttl()
	if err := c.redis.Set(ctx, keyPrefix+collection, encoded, ttl).Err(); err != nil {
		c.log.Warn("snapshot store failed", zap.String("collection", collection), zap.Error(err))
		return err
	}
	return nil
}

// Load returns the cached collection. ok is false on a miss or when no
// redis client is configured.
func (c *SnapshotCache) Load(ctx context.Context, collection string) ([]records.RawRecord, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	encoded, err := c.redis.Get(ctx, keyPrefix+collection).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("snapshot load failed", zap.String("collection", collection), zap.Error(err))
		}
		return nil, false
	}
	var rows []records.RawRecord
	if err := json.Unmarshal(encoded, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (c *SnapshotCache) ttl() time.Duration {
	if c.holder != nil {
		if ttl := c.holder.Get().Refresh.SnapshotTTL; ttl > 0 {
			return ttl
		}
	}
	return 15 * time.Minute
}

// NewRedisClient builds the shared redis client, or nil when redis is not
// configured.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		log.Named("cache").Info("redis disabled, snapshot cache and scheduler lock inactive")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client
}

var Module = fx.Module("cache",
	fx.Provide(NewRedisClient),
	fx.Provide(NewSnapshotCache),
)
