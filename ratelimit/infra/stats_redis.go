package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"videoadmin/ratelimit/domain"
)

// RedisStatsStore grava contadores em hashes do Redis:
//
//	<prefix>:total              ok|error|rejected|waited_ms
//	<prefix>:minute:<yyyymmddhhmm>  idem, com TTL
//	<prefix>:op                 <op>:<outcome>
//	<prefix>:key:<key>          idem total, com TTL (WithStatsTrackKeys)
type RedisStatsStore struct {
	rdb redis.Cmdable

	prefix string
	// ttl aplica apenas em chaves de série temporal / por key.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackKeys bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackKeys(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackKeys = track }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "videoadmin:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := string(ev.Outcome)
	if field == "" {
		return nil
	}
	waitedMs := ev.Waited.Milliseconds()

	incr := func(pipe redis.Pipeliner, key string, ttl time.Duration) {
		pipe.HIncrBy(ctx, key, field, 1)
		if waitedMs > 0 {
			pipe.HIncrBy(ctx, key, "waited_ms", waitedMs)
		}
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
	}

	pipe := s.rdb.Pipeline()
	incr(pipe, s.prefix+":total", 0)

	if s.bucket == "minute" {
		incr(pipe, fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504")), s.ttl)
	}

	if op := strings.TrimSpace(ev.Op); op != "" {
		pipe.HIncrBy(ctx, s.prefix+":op", op+":"+field, 1)
	}

	if s.trackKeys {
		if k := strings.TrimSpace(string(ev.Key)); k != "" {
			incr(pipe, s.prefix+":key:"+k, s.ttl)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Totals lê o hash cumulativo.
func (s *RedisStatsStore) Totals(ctx context.Context) (map[string]string, error) {
	return s.rdb.HGetAll(ctx, s.prefix+":total").Result()
}
