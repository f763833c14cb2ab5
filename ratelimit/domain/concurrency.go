package domain

import (
	"context"
	"errors"
)

// ErrNoSlot indica que nenhuma vaga foi obtida antes do ctx encerrar.
var ErrNoSlot = errors.New("no slot available")

// SlotPool representa um recurso com capacidade finita (requests admin em andamento).
//
// Acquire bloqueia até conseguir uma vaga ou até o ctx encerrar.
// Ao adquirir, retorna uma função de release que deve ser chamada exatamente uma vez.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
