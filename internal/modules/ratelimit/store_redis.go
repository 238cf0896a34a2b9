package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// Scores are unix milliseconds. Members are unique so that two requests in
// the same millisecond are both recorded.
var admitScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', '(' .. (now - window))
local count = redis.call('ZCARD', key)
local admitted = 0
if count < limit then
  redis.call('ZADD', key, now, ARGV[4])
  count = count + 1
  admitted = 1
end
if count > 0 then
  redis.call('PEXPIRE', key, window)
end

local oldest = -1
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if first[2] then
  oldest = tonumber(first[2])
end
return {admitted, count, oldest}
`)

var usageScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])

redis.call('ZREMRANGEBYSCORE', key, '-inf', '(' .. (now - window))
local count = redis.call('ZCARD', key)
local oldest = -1
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if first[2] then
  oldest = tonumber(first[2])
end
return {count, oldest}
`)

// RedisStore keeps each client's window in a sorted set, so limits hold across
// every instance sharing the Redis server.
type RedisStore struct {
	rdb redis.Scripter
}

func NewRedisStore(rdb redis.Scripter) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Key returns the Redis key holding client's window.
func Key(client string) string {
	return redisKeyPrefix + client
}

func (s *RedisStore) Admit(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (Usage, bool, error) {
	res, err := admitScript.Run(ctx, s.rdb, []string{Key(key)},
		now.UnixMilli(), window.Milliseconds(), limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return Usage{}, false, fmt.Errorf("ratelimit admit %q: %w", key, err)
	}
	if len(res) != 3 {
		return Usage{}, false, fmt.Errorf("ratelimit admit %q: unexpected reply %v", key, res)
	}
	return redisUsage(res[1], res[2]), res[0] == 1, nil
}

func (s *RedisStore) Usage(ctx context.Context, key string, now time.Time, window time.Duration) (Usage, error) {
	res, err := usageScript.Run(ctx, s.rdb, []string{Key(key)},
		now.UnixMilli(), window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Usage{}, fmt.Errorf("ratelimit usage %q: %w", key, err)
	}
	if len(res) != 2 {
		return Usage{}, fmt.Errorf("ratelimit usage %q: unexpected reply %v", key, res)
	}
	return redisUsage(res[0], res[1]), nil
}

func redisUsage(count, oldestMillis int64) Usage {
	u := Usage{Count: int(count)}
	if count > 0 && oldestMillis >= 0 {
		u.Oldest = time.UnixMilli(oldestMillis)
	}
	return u
}
