package texcache

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisKeyPrefix = "cortexface:tex:" + storeVersion + ":"

// RedisStore keeps PNG payloads in Redis, for fleets that share one warm
// cache instead of each rendering their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

type RedisOption func(*RedisStore)

// WithTTL expires entries; zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

func NewRedisStore(addr, password string, db int, log zerolog.Logger, opts ...RedisOption) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return newRedisStore(client, log, opts...)
}

// NewRedisStoreFromClient wraps an existing client; tests use this with
// miniredis.
func NewRedisStoreFromClient(client *redis.Client, log zerolog.Logger, opts ...RedisOption) *RedisStore {
	return newRedisStore(client, log, opts...)
}

func newRedisStore(client *redis.Client, log zerolog.Logger, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		log:    log.With().Str("component", "texstore").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (*image.NRGBA, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", id, err)
	}
	img, err := decodePNG(data)
	if err != nil {
		s.log.Warn().Str("id", id).Err(err).Msg("corrupt cached texture, discarding")
		_ = s.client.Del(ctx, s.key(id)).Err()
		return nil, ErrNotFound
	}
	return img, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, img *image.NRGBA) error {
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	var (
		ids    []string
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan: %w", err)
		}
		for _, k := range keys {
			ids = append(ids, k[len(redisKeyPrefix):])
		}
		if next == 0 {
			return ids, nil
		}
		cursor = next
	}
}

func (s *RedisStore) Clear(ctx context.Context) error {
	ids, err := s.Keys(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
