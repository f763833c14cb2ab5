package infra

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"videoadmin/ratelimit/domain"
)

func waitPending(t *testing.T, g interface{ Pending() int }, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for g.Pending() != n {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting pending=%d, got %d", n, g.Pending())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNewSlidingWindow_RejectsInvalidWindow(t *testing.T) {
	if _, err := NewSlidingWindow(domain.Window{Capacity: 0, Interval: time.Second}); err == nil {
		t.Fatalf("expected error for capacity 0")
	}
}

func TestSlidingWindow_FirstCapacityPermitsAreImmediate(t *testing.T) {
	g, err := NewSlidingWindow(domain.Window{Capacity: 20, Interval: time.Second})
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	for i := 0; i < 20; i++ {
		if err := g.Acquire(context.Background()); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
	}
	if el := time.Since(start); el > 100*time.Millisecond {
		t.Fatalf("expected 20 immediate permits, took %s", el)
	}
}

func TestSlidingWindow_NoWindowExceedsCapacity(t *testing.T) {
	const capacity = 5
	interval := 60 * time.Millisecond
	g, _ := NewSlidingWindow(domain.Window{Capacity: capacity, Interval: interval})

	var times []time.Time
	for i := 0; i < 3*capacity+2; i++ {
		if err := g.Acquire(context.Background()); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
		times = append(times, time.Now())
	}

	const slack = 5 * time.Millisecond
	for i := 0; i+capacity < len(times); i++ {
		if d := times[i+capacity].Sub(times[i]); d < interval-slack {
			t.Fatalf("dispatch %d and %d only %s apart (interval %s)", i, i+capacity, d, interval)
		}
	}
}

func TestSlidingWindow_QueuesInsteadOfDropping(t *testing.T) {
	interval := 50 * time.Millisecond
	g, _ := NewSlidingWindow(domain.Window{Capacity: 20, Interval: interval})

	var wg sync.WaitGroup
	errs := make(chan error, 25)
	start := time.Now()
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- g.Acquire(context.Background())
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("expected every request to get a permit, got %v", err)
		}
	}
	if el := time.Since(start); el < interval-5*time.Millisecond {
		t.Fatalf("expected the last 5 to wait for the window, took %s", el)
	}
	if g.Pending() != 0 {
		t.Fatalf("expected empty queue, got %d", g.Pending())
	}
}

func TestSlidingWindow_FIFO(t *testing.T) {
	g, _ := NewSlidingWindow(domain.Window{Capacity: 1, Interval: 200 * time.Millisecond})
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := g.Acquire(context.Background()); err != nil {
				t.Errorf("acquire %d: %v", i, err)
				return
			}
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}(i)
		// garante a ordem de chegada
		waitPending(t, g, i+1)
	}
	wg.Wait()

	for i, v := range order {
		if v != i {
			t.Fatalf("expected FIFO order, got %v", order)
		}
	}
}

func TestSlidingWindow_CancelledWaiterLeavesQueue(t *testing.T) {
	g, _ := NewSlidingWindow(domain.Window{Capacity: 1, Interval: time.Hour})
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Acquire(ctx) }()

	waitPending(t, g, 1)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("cancelled waiter did not return")
	}
	if g.Pending() != 0 {
		t.Fatalf("expected waiter removed from queue, pending=%d", g.Pending())
	}
}

func TestSlidingWindow_CancelledContextBeforeAcquire(t *testing.T) {
	g, _ := NewSlidingWindow(domain.Window{Capacity: 1, Interval: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	// a permissão não foi gasta
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("expected permit still available, got %v", err)
	}
}

func TestSlidingWindow_MaxPendingRejects(t *testing.T) {
	g, _ := NewSlidingWindow(domain.Window{Capacity: 1, Interval: time.Hour}, WithMaxPending(1))
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = g.Acquire(ctx) }()
	waitPending(t, g, 1)

	if err := g.Acquire(context.Background()); !errors.Is(err, domain.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}
