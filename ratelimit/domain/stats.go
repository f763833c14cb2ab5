package domain

import (
	"context"
	"time"
)

type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeError    Outcome = "error"
	OutcomeRejected Outcome = "rejected"
)

// StatsEvent registra uma passagem pelo gate (saída) ou pelo limiter (entrada).
//
// Op é um nome de baixa cardinalidade ("create_asset", "http GET").
// Key só é preenchida no lado de entrada; cuidado com cardinalidade ao persistir.
type StatsEvent struct {
	Op      string
	Key     Key
	Outcome Outcome
	// Waited é o tempo entre pedir a permissão e recebê-la (ou desistir).
	Waited time.Duration
	At     time.Time
}

// StatsStore persiste estatísticas. Quem chama trata erro como best-effort.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
