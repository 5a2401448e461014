package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hotel_booking/internal/bridge"
	"github.com/Freeeeeet/hotel_booking/internal/config"
	"github.com/Freeeeeet/hotel_booking/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Backends owns the connections the store and the bridge run on.
type Backends struct {
	KV        storage.KV
	Transport bridge.Transport

	redis *redis.Client
	pool  *pgxpool.Pool
}

// OpenBackends connects the configured store backend and bridge transport.
// Postgres migrations are applied before the store is used.
func OpenBackends(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backends, error) {
	b := &Backends{}

	if cfg.StoreBackend == config.StoreRedis || cfg.Bridge == config.BridgeRedis {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		b.redis = redis.NewClient(opts)
		if err := b.redis.Ping(ctx).Err(); err != nil {
			b.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Info("✅ Connected to redis", zap.String("addr", opts.Addr))
	}

	kv, err := b.openKV(ctx, cfg, logger)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.KV = kv

	switch cfg.Bridge {
	case config.BridgeRedis:
		b.Transport = bridge.NewRedisTransport(b.redis, cfg.BridgeChannel)
	default:
		b.Transport = bridge.NewLocalHub()
	}

	logger.Info("Backends ready",
		zap.String("store", cfg.StoreBackend),
		zap.String("bridge", cfg.Bridge))
	return b, nil
}

func (b *Backends) openKV(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.KV, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return storage.NewMemoryKV(), nil
	case config.StoreFile:
		kv, err := storage.NewFileKV(cfg.StoreDir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return kv, nil
	case config.StoreRedis:
		return storage.NewRedisKV(b.redis, storage.DefaultRedisPrefix), nil
	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.pool = pool

		migrator, err := NewMigrator(pool, logger)
		if err != nil {
			return nil, err
		}
		defer migrator.Close()
		if err := migrator.Run(ctx); err != nil {
			return nil, err
		}
		return storage.NewPostgresKV(pool), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func (b *Backends) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}
