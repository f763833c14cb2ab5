package infra

import (
	"context"
	"sync"
)

// ChanPool é um semáforo baseado em channel.
type ChanPool struct {
	sem chan struct{}
}

// NewChanPool cria um pool com capacidade max.
func NewChanPool(max int) *ChanPool {
	return &ChanPool{sem: make(chan struct{}, max)}
}

// Acquire implementa domain.SlotPool.
func (p *ChanPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, false
	}

	var once sync.Once
	return func() { once.Do(func() { <-p.sem }) }, true
}

// InUse é o número de vagas ocupadas.
func (p *ChanPool) InUse() int { return len(p.sem) }
