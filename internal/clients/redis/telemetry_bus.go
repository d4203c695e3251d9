package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/shotline/shotline-backend/internal/pkg/envutil"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

// TelemetryBus publishes generation events to a Redis channel for live
// consumers (dashboards, debugging). Best effort only.
type TelemetryBus interface {
	Publish(ctx context.Context, event map[string]any) error
	Close() error
}

type telemetryBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewTelemetryBus(log *logger.Logger) (TelemetryBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(envutil.GetEnv("REDIS_ADDR", "", log))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	channel := envutil.GetEnv("REDIS_TELEMETRY_CHANNEL", "generation_events", log)

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

	return &telemetryBus{
		log:     log.With("service", "RedisTelemetryBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *telemetryBus) Publish(ctx context.Context, event map[string]any) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal telemetry event: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel, raw).Err(); err != nil {
		return fmt.Errorf("publish telemetry event: %w", err)
	}
	return nil
}

func (b *telemetryBus) Close() error {
	return b.rdb.Close()
}
