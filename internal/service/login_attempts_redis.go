package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginAttemptCounter tracks consecutive failed logins per identity. The
// count is advisory state for throttling collaborators and the
// failed_attempts snapshot on issued sessions; nothing here blocks a login
// by itself.
type LoginAttemptCounter interface {
	Increment(ctx context.Context, identity string) (int64, error)
	Count(ctx context.Context, identity string) (int64, error)
	Reset(ctx context.Context, identity string) error
}

var redisAttemptIncrScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

type RedisLoginAttemptCounter struct {
	client redis.UniversalClient
	prefix string
	window time.Duration
}

func NewRedisLoginAttemptCounter(client redis.UniversalClient, prefix string, window time.Duration) *RedisLoginAttemptCounter {
	if prefix == "" {
		prefix = "login_attempts"
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisLoginAttemptCounter{client: client, prefix: prefix, window: window}
}

func (c *RedisLoginAttemptCounter) key(identity string) string {
	return fmt.Sprintf("%s:%s", c.prefix, identity)
}

func (c *RedisLoginAttemptCounter) Increment(ctx context.Context, identity string) (int64, error) {
	n, err := redisAttemptIncrScript.Run(
		ctx,
		c.client,
		[]string{c.key(identity)},
		c.window.Milliseconds(),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("increment login attempts for %s: %w", identity, err)
	}
	return n, nil
}

func (c *RedisLoginAttemptCounter) Count(ctx context.Context, identity string) (int64, error) {
	n, err := c.client.Get(ctx, c.key(identity)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("read login attempts for %s: %w", identity, err)
	}
	return n, nil
}

func (c *RedisLoginAttemptCounter) Reset(ctx context.Context, identity string) error {
	if err := c.client.Del(ctx, c.key(identity)).Err(); err != nil {
		return fmt.Errorf("reset login attempts for %s: %w", identity, err)
	}
	return nil
}
