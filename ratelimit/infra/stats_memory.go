package infra

import (
	"context"
	"sync"
	"time"

	"videoadmin/ratelimit/domain"
)

type Counters struct {
	OK       int64
	Error    int64
	Rejected int64
	// Waited soma o tempo de espera por permissão.
	Waited time.Duration
}

func (c *Counters) add(ev domain.StatsEvent) {
	switch ev.Outcome {
	case domain.OutcomeOK:
		c.OK++
	case domain.OutcomeError:
		c.Error++
	case domain.OutcomeRejected:
		c.Rejected++
	}
	c.Waited += ev.Waited
}

// MemoryStatsStore guarda contadores em memória.
// Útil para testes e desenvolvimento; não expira nada.
type MemoryStatsStore struct {
	mu    sync.Mutex
	total Counters
	byOp  map[string]Counters
	byKey map[string]Counters

	trackKeys bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackKeys(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackKeys = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byOp:  make(map[string]Counters),
		byKey: make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(ev)

	c := s.byOp[ev.Op]
	c.add(ev)
	s.byOp[ev.Op] = c

	if s.trackKeys && ev.Key != "" {
		k := s.byKey[string(ev.Key)]
		k.add(ev)
		s.byKey[string(ev.Key)] = k
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByOp() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byOp))
	for k, v := range s.byOp {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) ByKey() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byKey))
	for k, v := range s.byKey {
		out[k] = v
	}
	return out
}
