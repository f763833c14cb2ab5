package application

import (
	"context"
	"time"

	"videoadmin/logging"
	"videoadmin/ratelimit/domain"
)

// Dispatcher aplica o gate antes de cada chamada remota.
//
// Todas as chamadas para o mesmo recurso devem compartilhar o mesmo Gate.
// O erro da chamada volta sem alteração; o erro do gate (ctx, fila cheia) também.
type Dispatcher struct {
	Gate  domain.Gate
	Stats domain.StatsStore
}

func (d Dispatcher) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	start := time.Now()

	if d.Gate != nil {
		if err := d.Gate.Acquire(ctx); err != nil {
			d.record(ctx, op, domain.OutcomeRejected, time.Since(start))
			return err
		}
	}
	waited := time.Since(start)

	err := fn(ctx)

	outcome := domain.OutcomeOK
	if err != nil {
		outcome = domain.OutcomeError
	}
	d.record(ctx, op, outcome, waited)
	return err
}

// Call é Do para chamadas que devolvem um valor.
func Call[T any](ctx context.Context, d Dispatcher, op string, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := d.Do(ctx, op, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func (d Dispatcher) record(ctx context.Context, op string, outcome domain.Outcome, waited time.Duration) {
	if d.Stats == nil {
		return
	}
	// o request pode já ter sido cancelado; a estatística ainda vale
	err := d.Stats.Record(context.WithoutCancel(ctx), domain.StatsEvent{
		Op:      op,
		Outcome: outcome,
		Waited:  waited,
		At:      time.Now(),
	})
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("op", op).Str("outcome", string(outcome)).Msg("failed to record stats")
	}
}
