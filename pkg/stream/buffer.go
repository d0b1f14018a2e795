package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Buffer stores the non-transient events of an in-flight stream so a client
// that dropped its connection can replay them. Entries expire on their own;
// a finished stream is only kept around for the resume window.
type Buffer interface {
	Append(ctx context.Context, streamId string, event Event) error
	Load(ctx context.Context, streamId string) ([]Event, error)
	Clear(ctx context.Context, streamId string) error
}

// --- Redis implementation (multi-instance deployments) ---

type RedisBuffer struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisBuffer(rdb *redis.Client, ttl time.Duration) *RedisBuffer {
	return &RedisBuffer{rdb: rdb, ttl: ttl}
}

func (b *RedisBuffer) key(streamId string) string {
	return fmt.Sprintf("stream:buffer:%s", streamId)
}

func (b *RedisBuffer) Append(ctx context.Context, streamId string, event Event) error {
	data, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := b.key(streamId)
	pipe := b.rdb.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, b.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append to stream buffer: %w", err)
	}
	return nil
}

func (b *RedisBuffer) Load(ctx context.Context, streamId string) ([]Event, error) {
	raw, err := b.rdb.LRange(ctx, b.key(streamId), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load stream buffer: %w", err)
	}

	events := make([]Event, 0, len(raw))
	for _, item := range raw {
		event, err := UnmarshalEvent([]byte(item))
		if err != nil {
			return nil, fmt.Errorf("decode buffered event: %w", err)
		}
		events = append(events, event)
	}
	return events, nil
}

func (b *RedisBuffer) Clear(ctx context.Context, streamId string) error {
	return b.rdb.Del(ctx, b.key(streamId)).Err()
}

// --- In-memory implementation (single instance / tests) ---

type MemoryBuffer struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewMemoryBuffer(ttl time.Duration) *MemoryBuffer {
	return &MemoryBuffer{
		cache: cache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

func (b *MemoryBuffer) Append(_ context.Context, streamId string, event Event) error {
	var events []Event
	if x, found := b.cache.Get(streamId); found {
		events = x.([]Event)
	}
	events = append(events, event)
	b.cache.Set(streamId, events, b.ttl)
	return nil
}

func (b *MemoryBuffer) Load(_ context.Context, streamId string) ([]Event, error) {
	if x, found := b.cache.Get(streamId); found {
		events := x.([]Event)
		out := make([]Event, len(events))
		copy(out, events)
		return out, nil
	}
	return nil, nil
}

func (b *MemoryBuffer) Clear(_ context.Context, streamId string) error {
	b.cache.Delete(streamId)
	return nil
}
