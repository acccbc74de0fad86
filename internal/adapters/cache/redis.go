package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions selects the Redis instance shared by the key-value store
// and the rate limiter. A non-empty URL takes precedence over the other
// fields.
type RedisOptions struct {
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

func (o RedisOptions) clientOptions() (*redis.Options, error) {
	if o.URL != "" {
		opts, err := redis.ParseURL(o.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opts, nil
	}

	return &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", o.Host, o.Port),
		Password: o.Password,
		DB:       o.DB,
	}, nil
}

func NewRedisClient(o RedisOptions) (*redis.Client, error) {
	opts, err := o.clientOptions()
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = 10 * time.Second
	opts.ReadTimeout = 30 * time.Second
	opts.WriteTimeout = 30 * time.Second
	opts.PoolSize = 10
	opts.MinIdleConns = 2

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	return rdb, nil
}
