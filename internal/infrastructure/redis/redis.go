// Package redis holds the go-redis backed infrastructure: the client
// constructor and the fixed-window request counter used for rate limiting.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// NewClient parses a redis:// URL and pings the server.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 3 * time.Second
	opts.ReadTimeout = time.Second
	opts.WriteTimeout = time.Second

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// incrExpire atomically increments the window counter and starts the window
// on the first hit.
var incrExpire = goredis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// WindowCounter counts hits per key in fixed windows.
type WindowCounter struct {
	client goredis.Scripter
	window time.Duration
}

func NewWindowCounter(client goredis.Scripter, window time.Duration) *WindowCounter {
	return &WindowCounter{client: client, window: window}
}

// Hit records one request for key and returns the count in the current
// window together with the time left until it resets.
func (w *WindowCounter) Hit(ctx context.Context, key string) (int, time.Duration, error) {
	res, err := incrExpire.Run(ctx, w.client, []string{key}, w.window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}
	ttl := time.Duration(res[1]) * time.Millisecond
	if ttl < 0 {
		ttl = 0
	}
	return int(res[0]), ttl, nil
}
