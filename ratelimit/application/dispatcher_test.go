package application

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"videoadmin/logging"
	"videoadmin/ratelimit/domain"
)

type fakeGate struct {
	err   error
	calls int
}

func (g *fakeGate) Acquire(context.Context) error {
	g.calls++
	return g.err
}

func TestDispatcher_Do_AcquiresBeforeCall(t *testing.T) {
	gate := &fakeGate{}
	stats := &recordingStats{}
	d := Dispatcher{Gate: gate, Stats: stats}

	called := false
	err := d.Do(context.Background(), "get_asset", func(context.Context) error {
		if gate.calls != 1 {
			t.Errorf("expected permit before the call, got %d acquires", gate.calls)
		}
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatalf("expected call to run")
	}
	if len(stats.events) != 1 || stats.events[0].Outcome != domain.OutcomeOK || stats.events[0].Op != "get_asset" {
		t.Fatalf("unexpected stats: %+v", stats.events)
	}
}

func TestDispatcher_Do_PropagatesCallErrorUnchanged(t *testing.T) {
	boom := errors.New("boom")
	stats := &recordingStats{}
	d := Dispatcher{Gate: &fakeGate{}, Stats: stats}

	err := d.Do(context.Background(), "delete_asset", func(context.Context) error { return boom })
	if err != boom {
		t.Fatalf("expected the same error value, got %v", err)
	}
	if stats.events[0].Outcome != domain.OutcomeError {
		t.Fatalf("expected error outcome, got %s", stats.events[0].Outcome)
	}
}

func TestDispatcher_Do_GateErrorSkipsCall(t *testing.T) {
	stats := &recordingStats{}
	d := Dispatcher{Gate: &fakeGate{err: domain.ErrQueueFull}, Stats: stats}

	err := d.Do(context.Background(), "create_asset", func(context.Context) error {
		t.Fatalf("call must not run without a permit")
		return nil
	})
	if !errors.Is(err, domain.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if stats.events[0].Outcome != domain.OutcomeRejected {
		t.Fatalf("expected rejected outcome, got %s", stats.events[0].Outcome)
	}
}

func TestDispatcher_Do_NoGateRunsDirectly(t *testing.T) {
	d := Dispatcher{}
	if err := d.Do(context.Background(), "x", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestCall_ReturnsValue(t *testing.T) {
	d := Dispatcher{Gate: &fakeGate{}}

	v, err := Call(context.Background(), d, "list_assets", func(context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if len(v) != 2 {
		t.Fatalf("expected 2 items, got %d", len(v))
	}
}

type failingStats struct{ err error }

func (s failingStats) Record(context.Context, domain.StatsEvent) error { return s.err }

func TestDispatcher_Do_LogsStatsFailure(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	d := Dispatcher{Gate: &fakeGate{}, Stats: failingStats{err: errors.New("redis down")}}
	if err := d.Do(context.Background(), "list_assets", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("stats failure must not reach the caller, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "failed to record stats") || !strings.Contains(out, "redis down") {
		t.Fatalf("expected stats failure logged, got %q", out)
	}
	if !strings.Contains(out, `"op":"list_assets"`) {
		t.Fatalf("expected op in log, got %q", out)
	}
}
