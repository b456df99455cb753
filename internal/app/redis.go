package app

import (
	"context"
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"cabbook/internal/config"
)

// NewRedisClient connects to the Redis instance backing the snapshot slot,
// the session blobs and the idempotency cache. When a New Relic application
// is supplied every command is traced as a datastore segment.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, nrApp *newrelic.Application) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if nrApp != nil {
		client.AddHook(snapshotStoreHook{})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// snapshotStoreHook traces Redis commands against the snapshot store as New
// Relic datastore segments. The transaction comes from the request context
// placed there by nrgin.
type snapshotStoreHook struct{}

func (snapshotStoreHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (snapshotStoreHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		end := traceSegment(ctx, cmd.Name())
		defer end()
		return next(ctx, cmd)
	}
}

func (snapshotStoreHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		end := traceSegment(ctx, "pipeline")
		defer end()
		return next(ctx, cmds)
	}
}

func traceSegment(ctx context.Context, operation string) func() {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return func() {}
	}
	segment := &newrelic.DatastoreSegment{
		StartTime: txn.StartSegmentNow(),
		Product:   newrelic.DatastoreRedis,
		Operation: operation,
	}
	return segment.End
}
