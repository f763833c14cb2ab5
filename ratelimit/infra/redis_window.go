package infra

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"videoadmin/ratelimit/domain"
)

// slidingLog remove despachos fora da janela e, se houver espaço, registra um novo.
// Retorna 0 quando concedeu; senão, os milissegundos até o mais antigo sair da janela.
// O relógio é o do Redis para todas as instâncias concordarem.
var slidingLog = redis.NewScript(`
local t = redis.call('TIME')
local now = tonumber(t[1]) * 1000 + math.floor(tonumber(t[2]) / 1000)
local interval = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])

redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', now - interval)

if redis.call('ZCARD', KEYS[1]) < capacity then
  redis.call('ZADD', KEYS[1], now, ARGV[3])
  redis.call('PEXPIRE', KEYS[1], interval)
  return 0
end

local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
local wait = tonumber(oldest[2]) + interval - now
if wait < 1 then wait = 1 end
return wait
`)

// RedisWindow é um domain.Gate compartilhado entre instâncias do gateway.
//
// O teto de Capacity por Interval vale para todas as instâncias juntas.
// A ordem FIFO é garantida só entre os pedidos de uma mesma instância.
type RedisWindow struct {
	rdb    redis.Scripter
	key    string
	window domain.Window

	maxPending int
	pending    atomic.Int64

	// local serializa os pedidos desta instância (ordem de chegada).
	local chan struct{}
}

type RedisWindowOption func(*RedisWindow)

func WithRedisKey(key string) RedisWindowOption {
	return func(w *RedisWindow) { w.key = strings.Trim(key, ":") }
}

func WithRedisMaxPending(n int) RedisWindowOption {
	return func(w *RedisWindow) { w.maxPending = n }
}

func NewRedisWindow(rdb redis.Scripter, win domain.Window, opts ...RedisWindowOption) (*RedisWindow, error) {
	if err := win.Validate(); err != nil {
		return nil, err
	}
	w := &RedisWindow{
		rdb:    rdb,
		key:    "videoadmin:gate",
		window: win,
		local:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *RedisWindow) Pending() int { return int(w.pending.Load()) }

func (w *RedisWindow) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n := w.pending.Add(1)
	defer w.pending.Add(-1)
	if w.maxPending > 0 && n > int64(w.maxPending) {
		return domain.ErrQueueFull
	}

	select {
	case w.local <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-w.local }()

	member := uuid.NewString()
	interval := w.window.Interval.Milliseconds()
	if interval < 1 {
		interval = 1
	}

	for {
		wait, err := slidingLog.Run(ctx, w.rdb, []string{w.key}, interval, w.window.Capacity, member).Int64()
		if err != nil {
			return err
		}
		if wait == 0 {
			return nil
		}

		t := time.NewTimer(time.Duration(wait) * time.Millisecond)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
