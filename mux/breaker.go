package mux

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"videoadmin/logging"
	"videoadmin/ratelimit/domain"
)

type BreakerConfig struct {
	Name string
	// MaxRequests no estado half-open.
	MaxRequests uint32
	// Interval zera as contagens no estado closed.
	Interval time.Duration
	// Timeout é quanto tempo fica open antes de tentar half-open.
	Timeout time.Duration
	// FailureThreshold falhas consecutivas abrem o circuito.
	FailureThreshold uint32
	// OnStateChange é chamado além do log (métricas).
	OnStateChange func(name string, from, to gobreaker.State)
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "mux",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Breaker abre o circuito quando a plataforma falha seguidamente.
//
// 4xx remotos, cancelamento do chamador e fila cheia do gate não contam como falha.
// Com o circuito aberto, as chamadas falham na hora (gobreaker.ErrOpenState) sem gastar permissão.
type Breaker struct {
	next Platform
	cb   *gobreaker.CircuitBreaker[any]
}

func NewBreaker(next Platform, cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	log := logging.WithComponent("mux_breaker")

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				IsClientError(err) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, domain.ErrQueueFull)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, from, to)
			}
		},
	}
	return &Breaker{next: next, cb: gobreaker.NewCircuitBreaker[any](settings)}
}

func (b *Breaker) State() gobreaker.State { return b.cb.State() }

func execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	v, err := b.cb.Execute(func() (any, error) { return fn() })
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (b *Breaker) CreateAsset(ctx context.Context, in CreateAssetInput) (Asset, error) {
	return execute(b, func() (Asset, error) { return b.next.CreateAsset(ctx, in) })
}

func (b *Breaker) GetAsset(ctx context.Context, id string) (Asset, error) {
	return execute(b, func() (Asset, error) { return b.next.GetAsset(ctx, id) })
}

func (b *Breaker) ListAssets(ctx context.Context, p ListParams) ([]Asset, error) {
	return execute(b, func() ([]Asset, error) { return b.next.ListAssets(ctx, p) })
}

func (b *Breaker) DeleteAsset(ctx context.Context, id string) error {
	_, err := b.cb.Execute(func() (any, error) { return nil, b.next.DeleteAsset(ctx, id) })
	return err
}

func (b *Breaker) CreateUpload(ctx context.Context, in CreateUploadInput) (Upload, error) {
	return execute(b, func() (Upload, error) { return b.next.CreateUpload(ctx, in) })
}

func (b *Breaker) GetUpload(ctx context.Context, id string) (Upload, error) {
	return execute(b, func() (Upload, error) { return b.next.GetUpload(ctx, id) })
}

func (b *Breaker) Metrics(ctx context.Context, q MetricsQuery) (Breakdown, error) {
	return execute(b, func() (Breakdown, error) { return b.next.Metrics(ctx, q) })
}
