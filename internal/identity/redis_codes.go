package identity

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skycastlabs/user-service/pkg/helpers"
)

// RedisCodes stores pending verification codes in Redis with a TTL, so an
// unconsumed code simply expires.
type RedisCodes struct {
	rdb *redis.Client
}

func NewRedisCodes(rdb *redis.Client) *RedisCodes {
	return &RedisCodes{rdb: rdb}
}

func (c *RedisCodes) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	return c.rdb.Set(ctx, helpers.KeyVerifyCode(email), code, ttl).Err()
}

func (c *RedisCodes) Get(ctx context.Context, email string) (string, error) {
	v, err := c.rdb.Get(ctx, helpers.KeyVerifyCode(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeMismatch
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (c *RedisCodes) Drop(ctx context.Context, email string) error {
	return c.rdb.Del(ctx, helpers.KeyVerifyCode(email)).Err()
}

var _ CodeCache = (*RedisCodes)(nil)
