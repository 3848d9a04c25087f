package statestore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/appstate"
)

const redisKeyPrefix = "tawjih:state:"

// RedisPersister keeps states in redis, each expiring `ttl` after its last save.
type RedisPersister struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ appstate.Persister = (*RedisPersister)(nil)

func NewRedisPersister(client redis.UniversalClient, ttl time.Duration) *RedisPersister {
	return &RedisPersister{client: client, ttl: ttl}
}

// NewRedisClient connects to the redis server of the state config.
func NewRedisClient(ctx context.Context, conf core.StateConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: conf.RedisAddr,
		DB:   conf.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

func (p *RedisPersister) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := p.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appstate.ErrNoState
		}
		return nil, errors.Wrap(err, "reading state from redis")
	}
	return data, nil
}

func (p *RedisPersister) Save(ctx context.Context, key string, data []byte) error {
	if err := p.client.Set(ctx, redisKeyPrefix+key, data, p.ttl).Err(); err != nil {
		return errors.Wrap(err, "writing state to redis")
	}
	return nil
}
