package infra

import (
	"context"
	"sync"
	"time"

	"videoadmin/ratelimit/domain"
)

// SlidingWindow é um domain.Gate em processo.
//
// Guarda os instantes dos últimos Capacity despachos (ring buffer). Uma permissão
// só sai quando o mais antigo deles tem pelo menos Interval de idade, então qualquer
// janela de Interval contém no máximo Capacity despachos, não só janelas alinhadas.
//
// Quem chega com a janela cheia (ou com alguém já na fila) entra numa fila FIFO.
// Um timer dispara quando o despacho mais antigo sai da janela e drena a fila pela cabeça.
type SlidingWindow struct {
	mu sync.Mutex

	window     domain.Window
	maxPending int

	stamps []time.Time
	head   int // registro mais antigo
	count  int

	queue []*waiter
	timer *time.Timer
}

type waiter struct {
	ready   chan struct{}
	granted bool
}

type SlidingWindowOption func(*SlidingWindow)

// WithMaxPending limita a fila. Com a fila cheia, Acquire retorna domain.ErrQueueFull.
// n <= 0 mantém a fila ilimitada.
func WithMaxPending(n int) SlidingWindowOption {
	return func(s *SlidingWindow) { s.maxPending = n }
}

func NewSlidingWindow(w domain.Window, opts ...SlidingWindowOption) (*SlidingWindow, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	s := &SlidingWindow{
		window: w,
		stamps: make([]time.Time, w.Capacity),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *SlidingWindow) Window() domain.Window { return s.window }

// Pending é o tamanho atual da fila.
func (s *SlidingWindow) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Acquire implementa domain.Gate.
//
// Se o ctx encerrar com o pedido ainda na fila, ele sai da fila e a posição é perdida.
// Se a permissão já tinha sido concedida, ela conta para a janela mesmo assim.
func (s *SlidingWindow) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	now := time.Now()
	if len(s.queue) == 0 && s.grantLocked(now) {
		s.mu.Unlock()
		return nil
	}
	if s.maxPending > 0 && len(s.queue) >= s.maxPending {
		s.mu.Unlock()
		return domain.ErrQueueFull
	}

	w := &waiter{ready: make(chan struct{})}
	s.queue = append(s.queue, w)
	s.scheduleLocked(now)
	s.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !w.granted {
		s.removeLocked(w)
	}
	return ctx.Err()
}

// grantLocked registra um despacho em now se a janela permitir.
func (s *SlidingWindow) grantLocked(now time.Time) bool {
	if s.count < s.window.Capacity {
		s.stamps[(s.head+s.count)%len(s.stamps)] = now
		s.count++
		return true
	}
	if now.Sub(s.stamps[s.head]) < s.window.Interval {
		return false
	}
	s.stamps[s.head] = now
	s.head = (s.head + 1) % len(s.stamps)
	return true
}

func (s *SlidingWindow) scheduleLocked(now time.Time) {
	if len(s.queue) == 0 || s.timer != nil {
		return
	}
	wait := s.stamps[s.head].Add(s.window.Interval).Sub(now)
	if wait < 0 {
		wait = 0
	}
	s.timer = time.AfterFunc(wait, s.drain)
}

func (s *SlidingWindow) drain() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timer = nil
	now := time.Now()
	for len(s.queue) > 0 && s.grantLocked(now) {
		w := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		w.granted = true
		close(w.ready)
	}
	s.scheduleLocked(now)
}

func (s *SlidingWindow) removeLocked(w *waiter) {
	for i, q := range s.queue {
		if q == w {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}
