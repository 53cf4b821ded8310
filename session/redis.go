package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	// TTL is the lifetime of a record; 0 keeps records forever.
	TTL time.Duration
	// Prefix is prepended to every key.
	Prefix string
}

// RedisStore is a Store backed by Redis. Records are stored as JSON under
// <prefix><id>; a sorted set <prefix>index orders them by start time.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore creates a store over client.
func NewRedisStore(client *redis.Client, optFns ...func(o *RedisOptions)) *RedisStore {
	opts := RedisOptions{
		TTL:    24 * time.Hour,
		Prefix: "logimesh:run:",
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &RedisStore{client: client, ttl: opts.TTL, prefix: opts.Prefix}
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Save writes rec and indexes it by start time in one round trip.
func (s *RedisStore) Save(ctx context.Context, rec *Record) error {
	if rec == nil || rec.ID == "" {
		return ErrInvalidID
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(rec.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(rec.StartedAt.UnixNano()), Member: rec.ID})

	if s.ttl > 0 {
		pipe.Expire(ctx, s.indexKey(), s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save: %w", err)
	}

	return nil
}

// Get loads the record with id.
func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record %s: %w", id, err)
	}

	return &rec, nil
}

// List returns every live record, most recently started first. Index
// entries whose record expired are pruned.
func (s *RedisStore) List(ctx context.Context) ([]*Record, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}

	out := make([]*Record, 0, len(ids))

	var stale []any

	for _, id := range ids {
		rec, err := s.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			stale = append(stale, id)
			continue
		}

		if err != nil {
			return nil, err
		}

		out = append(out, rec)
	}

	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			return nil, fmt.Errorf("redis prune index: %w", err)
		}
	}

	sortNewestFirst(out)

	return out, nil
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) indexKey() string { return s.prefix + "index" }
