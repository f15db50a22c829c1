package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go-evelink/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ErrNil is returned by Get when the key does not exist
var ErrNil = redis.Nil

type Redis struct {
	Client *redis.Client
	tracer trace.Tracer
}

func NewRedis(ctx context.Context) (*Redis, error) {
	redisURL := config.GetEnv("REDIS_URL", "redis://localhost:6379")

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", opt.Addr, "db", opt.DB)

	return NewRedisFromClient(client), nil
}

// NewRedisFromClient wraps an existing client, e.g. one pointed at a test server
func NewRedisFromClient(client *redis.Client) *Redis {
	r := &Redis{Client: client}
	if config.TelemetryEnabled() {
		r.tracer = otel.Tracer("go-evelink/redis")
	}
	return r
}

func (r *Redis) Close() error {
	return r.Client.Close()
}

// startSpan returns a no-op span when tracing is disabled
func (r *Redis) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if r.tracer == nil {
		return ctx, noop.Span{}
	}
	attrs = append(attrs, attribute.String("redis.operation", op))
	return r.tracer.Start(ctx, "redis."+op, trace.WithAttributes(attrs...))
}

func (r *Redis) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	ctx, span := r.startSpan(ctx, "SET",
		attribute.String("redis.key", key),
		attribute.String("redis.expiration", expiration.String()),
	)
	defer span.End()

	err := r.Client.Set(ctx, key, value, expiration).Err()
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	ctx, span := r.startSpan(ctx, "GET", attribute.String("redis.key", key))
	defer span.End()

	result, err := r.Client.Get(ctx, key).Result()
	if err != nil && err != redis.Nil {
		span.RecordError(err)
	}
	return result, err
}

func (r *Redis) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return r.Client.Ping(ctx).Err()
}
