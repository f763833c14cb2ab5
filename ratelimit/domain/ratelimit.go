package domain

// Contratos do rate limit de entrada (por chamador).

import "time"

type Key string

// Limiter decide se uma ação do chamador é permitida agora.
// A camada de infra usa golang.org/x/time/rate (token bucket).
type Limiter interface {
	Allow() bool
}

// RetryHinter é opcional: um Limiter que sabe quanto falta para a próxima ficha.
type RetryHinter interface {
	RetryAfter() time.Duration
}

// LimiterStore obtém um limiter por chave (IP, header de API key, usuário).
type LimiterStore interface {
	Get(Key) Limiter
}

type Decision struct {
	Allowed bool
	// RetryAfter é o valor de Retry-After quando bloquear. 0 = sem recomendação.
	RetryAfter time.Duration
}
