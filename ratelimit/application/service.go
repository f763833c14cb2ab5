package application

import (
	"context"
	"time"

	"videoadmin/ratelimit/domain"
)

// Service concentra a regra do rate limit de entrada.
//
// Não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type Service struct {
	Store      domain.LimiterStore
	Stats      domain.StatsStore
	RetryAfter time.Duration
}

// Decide consulta o limiter da chave e registra o evento em Stats (best-effort).
func (s Service) Decide(ctx context.Context, op string, key domain.Key) domain.Decision {
	dec := s.decide(key)

	if s.Stats != nil {
		outcome := domain.OutcomeOK
		if !dec.Allowed {
			outcome = domain.OutcomeRejected
		}
		_ = s.Stats.Record(ctx, domain.StatsEvent{
			Op:      op,
			Key:     key,
			Outcome: outcome,
			At:      time.Now(),
		})
	}
	return dec
}

func (s Service) decide(key domain.Key) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}
	if s.RetryAfter <= 0 {
		s.RetryAfter = 1 * time.Second
	}

	lim := s.Store.Get(key)
	if lim == nil || lim.Allow() {
		return domain.Decision{Allowed: true}
	}

	retry := s.RetryAfter
	if h, ok := lim.(domain.RetryHinter); ok {
		if d := h.RetryAfter(); d > retry {
			retry = d
		}
	}
	return domain.Decision{Allowed: false, RetryAfter: retry}
}
