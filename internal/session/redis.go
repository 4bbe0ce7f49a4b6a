package session

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/redis"
)

// redisCmds is the subset of goredis.Cmdable the store uses
type redisCmds interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// RedisStore keeps sessions as JSON values with a native TTL
type RedisStore struct {
	client redisCmds
	ttl    time.Duration
}

func NewRedisStore(client redisCmds, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*model.Session, error) {
	raw, err := s.client.Get(ctx, redis.SessionKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

func (s *RedisStore) Set(ctx context.Context, key string, sess *model.Session) error {
	raw, err := encode(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redis.SessionKey(key), raw, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, redis.SessionKey(key)).Err()
}

// DeleteExpired is a no-op: Redis expires keys itself.
func (s *RedisStore) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}
