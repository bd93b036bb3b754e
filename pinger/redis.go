package pinger

import (
	"context"
	"fmt"
	"net/url"

	"github.com/redis/go-redis/v9"
)

type redisPinger struct {
	base
	options *redis.Options
}

func newRedis(u *url.URL) (Pinger, error) {
	opts, err := redis.ParseURL(u.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	opts.PoolSize = 1
	opts.MaxRetries = -1
	return &redisPinger{base: newBase("redis", u), options: opts}, nil
}

// Ping sends PING on a one-off client.
func (p *redisPinger) Ping(ctx context.Context) error {
	client := redis.NewClient(p.options)
	defer client.Close()

	return client.Ping(ctx).Err()
}
