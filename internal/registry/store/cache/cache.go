// Package cache puts a Redis read-through cache in front of a registry.
//
// Keys are scoped by a generation counter; Invalidate bumps the generation so a
// refresh never mixes old and new buckets, and stale keys simply expire. When
// Redis fails repeatedly the circuit breaker opens and lookups go straight to
// the primary registry, with one recovery probe per interval.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"namescreen/internal/screening/models"
	"namescreen/internal/screening/ports"
	"namescreen/pkg/platform/circuit"
)

const defaultPrefix = "namescreen:registry"

type Registry struct {
	next    ports.Registry
	client  redis.Cmdable
	ttl     time.Duration
	prefix  string
	breaker *circuit.Breaker
	logger  *slog.Logger

	probeInterval time.Duration
	now           func() time.Time
	lastProbe     atomic.Int64
}

type Option func(*Registry)

func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) { r.ttl = ttl }
}

func WithPrefix(prefix string) Option {
	return func(r *Registry) { r.prefix = prefix }
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Registry) { r.breaker = b }
}

// WithProbeInterval sets how often an open breaker lets one lookup try Redis.
func WithProbeInterval(d time.Duration) Option {
	return func(r *Registry) { r.probeInterval = d }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

func New(next ports.Registry, client redis.Cmdable, opts ...Option) *Registry {
	r := &Registry{
		next:    next,
		client:  client,
		ttl:     5 * time.Minute,
		prefix:  defaultPrefix,
		breaker: circuit.New("registry-cache"),

		probeInterval: 5 * time.Second,
		now:           time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) generationKey() string {
	return r.prefix + ":gen"
}

func (r *Registry) bucketKey(gen int64, bucketKey string, recordType models.RecordType) string {
	return fmt.Sprintf("%s:g%d:%s:%s", r.prefix, gen, recordType, bucketKey)
}

// QueryByBucket serves a bucket from Redis, filling it from the primary on a miss.
func (r *Registry) QueryByBucket(ctx context.Context, bucketKey string, recordType models.RecordType) ([]models.NameRecord, error) {
	if r.bypass() {
		return r.next.QueryByBucket(ctx, bucketKey, recordType)
	}
	gen, err := r.client.Get(ctx, r.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.failure(ctx, "read generation", err)
		return r.next.QueryByBucket(ctx, bucketKey, recordType)
	}
	key := r.bucketKey(gen, bucketKey, recordType)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if !r.success() {
			return r.next.QueryByBucket(ctx, bucketKey, recordType)
		}
		var records []models.NameRecord
		if err := json.Unmarshal(raw, &records); err == nil {
			return records, nil
		}
		r.logger.WarnContext(ctx, "discarding undecodable cache entry", "key", key)
	case errors.Is(err, redis.Nil):
		r.success()
	default:
		r.failure(ctx, "read bucket", err)
		return r.next.QueryByBucket(ctx, bucketKey, recordType)
	}

	records, err := r.next.QueryByBucket(ctx, bucketKey, recordType)
	if err != nil {
		return nil, err
	}
	if r.breaker.IsOpen() {
		return records, nil
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return records, nil
	}
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.failure(ctx, "write bucket", err)
	}
	return records, nil
}

// QueryByType is not cached; it is only used by offline tooling.
func (r *Registry) QueryByType(ctx context.Context, recordType models.RecordType) ([]models.NameRecord, error) {
	return r.next.QueryByType(ctx, recordType)
}

// Invalidate retires every cached bucket by advancing the generation.
func (r *Registry) Invalidate(ctx context.Context) error {
	if err := r.client.Incr(ctx, r.generationKey()).Err(); err != nil {
		r.failure(ctx, "advance generation", err)
		return fmt.Errorf("invalidate registry cache: %w", err)
	}
	return nil
}

// Healthy reports whether the cache is in use.
func (r *Registry) Healthy() bool {
	return !r.breaker.IsOpen()
}

// bypass reports whether the breaker is open and no recovery probe is due.
// At most one caller per interval wins the probe.
func (r *Registry) bypass() bool {
	if !r.breaker.IsOpen() {
		return false
	}
	now := r.now().UnixNano()
	last := r.lastProbe.Load()
	if now-last < int64(r.probeInterval) {
		return true
	}
	return !r.lastProbe.CompareAndSwap(last, now)
}

func (r *Registry) success() bool {
	usePrimary, change := r.breaker.RecordSuccess()
	if change.Closed {
		r.logger.Info("registry cache recovered, circuit closed", "breaker", r.breaker.Name())
	}
	return usePrimary
}

func (r *Registry) failure(ctx context.Context, op string, err error) {
	_, change := r.breaker.RecordFailure()
	if change.Opened {
		r.lastProbe.Store(r.now().UnixNano())
		r.logger.ErrorContext(ctx, "registry cache failing, circuit opened",
			"breaker", r.breaker.Name(),
			"op", op,
			"error", err,
		)
		return
	}
	r.logger.WarnContext(ctx, "registry cache error", "op", op, "error", err)
}
