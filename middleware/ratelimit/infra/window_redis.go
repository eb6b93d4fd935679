package infra

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"resodo-gateway/middleware/ratelimit/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript faz poda + contagem + registro atomicamente.
// Scores em milissegundos. Retorna {allowed, count, oldestMs}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
  local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
  local oldestMs = 0
  if oldest[2] then oldestMs = tonumber(oldest[2]) end
  return {0, count, oldestMs}
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, count + 1, 0}
`)

// RedisWindowStore aplica a mesma janela deslizante do WindowStore, mas com o
// estado em Redis (sorted set por chave), para várias instâncias do gateway.
//
// Em erro de Redis a decisão é "permitir" (fail-open) e o erro é logado.
type RedisWindowStore struct {
	rdb     *redis.Client
	prefix  string
	policy  domain.Policy
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

type RedisWindowOption func(*RedisWindowStore)

func WithWindowPrefix(prefix string) RedisWindowOption {
	return func(s *RedisWindowStore) { s.prefix = strings.Trim(prefix, ":") }
}

func WithWindowTimeout(d time.Duration) RedisWindowOption {
	return func(s *RedisWindowStore) { s.timeout = d }
}

func WithWindowLogger(l *slog.Logger) RedisWindowOption {
	return func(s *RedisWindowStore) { s.logger = l }
}

func WithWindowClock(now func() time.Time) RedisWindowOption {
	return func(s *RedisWindowStore) { s.now = now }
}

func NewRedisWindowStore(rdb *redis.Client, policy domain.Policy, opts ...RedisWindowOption) *RedisWindowStore {
	if policy.Limit <= 0 || policy.Window <= 0 {
		policy = domain.DefaultPolicy
	}
	s := &RedisWindowStore{
		rdb:     rdb,
		prefix:  "ratelimit:window",
		policy:  policy,
		timeout: 250 * time.Millisecond,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisWindowStore) Policy() domain.Policy { return s.policy }

// Get implementa domain.LimiterStore.
func (s *RedisWindowStore) Get(key domain.Key) domain.Limiter {
	return redisWindowLimiter{store: s, key: string(key)}
}

type redisWindowLimiter struct {
	store *RedisWindowStore
	key   string
}

func (l redisWindowLimiter) Allow(ctx context.Context) domain.Decision {
	return l.store.allow(ctx, l.key)
}

func (s *RedisWindowStore) redisKey(key string) string {
	return s.prefix + ":" + key
}

func (s *RedisWindowStore) allow(ctx context.Context, key string) domain.Decision {
	if s == nil || s.rdb == nil {
		return domain.Decision{Allowed: true, Remaining: -1}
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	nowMs := s.now().UnixMilli()
	windowMs := s.policy.Window.Milliseconds()
	member := fmt.Sprintf("%d-%s", nowMs, uuid.NewString())

	res, err := slidingWindowScript.Run(ctx, s.rdb,
		[]string{s.redisKey(key)},
		nowMs, windowMs, s.policy.Limit, member,
	).Int64Slice()
	if err != nil || len(res) != 3 {
		s.logger.Warn("redis rate limit unavailable, allowing request", "key", key, "error", err)
		return domain.Decision{Allowed: true, Remaining: -1}
	}

	if res[0] == 1 {
		return domain.Decision{Allowed: true, Remaining: s.policy.Limit - int(res[1])}
	}

	retry := time.Duration(res[2]+windowMs-nowMs) * time.Millisecond
	if retry < 0 {
		retry = 0
	}
	return domain.Decision{Allowed: false, RetryAfter: retry, Remaining: 0}
}

// Count devolve quantas requisições da chave estão dentro da janela.
func (s *RedisWindowStore) Count(ctx context.Context, key domain.Key) (int, error) {
	cutoff := s.now().UnixMilli() - s.policy.Window.Milliseconds()
	n, err := s.rdb.ZCount(ctx, s.redisKey(string(key)), fmt.Sprintf("(%d", cutoff), "+inf").Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
