package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrQueueFull é retornado pela variante limitada do gate quando a fila de espera está cheia.
var ErrQueueFull = errors.New("rate limit queue full")

// Gate entrega permissões para chamadas remotas.
//
// Acquire bloqueia até a permissão ser concedida, o ctx encerrar ou (na variante
// limitada) a fila estar cheia. Retorno nil significa que a chamada pode ser despachada agora.
// Permissões não são devolvidas: uma vez concedida, conta para a janela.
type Gate interface {
	Acquire(ctx context.Context) error
}

// Window descreve a janela deslizante: no máximo Capacity despachos em qualquer intervalo de Interval.
type Window struct {
	Capacity int
	Interval time.Duration
}

// DefaultWindow é o limite da plataforma de vídeo: 20 chamadas por segundo.
var DefaultWindow = Window{Capacity: 20, Interval: time.Second}

func (w Window) Validate() error {
	if w.Capacity <= 0 {
		return fmt.Errorf("window capacity must be > 0, got %d", w.Capacity)
	}
	if w.Interval <= 0 {
		return fmt.Errorf("window interval must be > 0, got %s", w.Interval)
	}
	return nil
}
