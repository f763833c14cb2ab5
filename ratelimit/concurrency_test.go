package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"videoadmin/ratelimit/infra"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestConcurrencyMiddleware_RejectsWhenPoolIsFull(t *testing.T) {
	pool := infra.NewChanPool(1)
	release, ok := pool.Acquire(context.Background())
	if !ok {
		t.Fatal("expected first slot")
	}

	h := ConcurrencyMiddleware(ConcurrencyOptions{
		Pool:           pool,
		AcquireTimeout: 20 * time.Millisecond,
	})(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/assets", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"code":"SERVER_BUSY"`) {
		t.Fatalf("expected SERVER_BUSY envelope, got %s", w.Body.String())
	}

	// com a vaga devolvida o mesmo pool volta a aceitar
	release()
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/assets", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after release, got %d", w.Code)
	}
	if pool.InUse() != 0 {
		t.Fatalf("expected slot returned after the request, in use=%d", pool.InUse())
	}
}

func TestConcurrencyMiddleware_HoldsSlotDuringRequest(t *testing.T) {
	pool := infra.NewChanPool(2)
	var seen int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = pool.InUse()
		w.WriteHeader(http.StatusNoContent)
	})
	h := ConcurrencyMiddleware(ConcurrencyOptions{Pool: pool})(next)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/assets/a1", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if seen != 1 {
		t.Fatalf("expected one slot in use inside the handler, got %d", seen)
	}
	if pool.InUse() != 0 {
		t.Fatalf("expected slot released, in use=%d", pool.InUse())
	}
}

func TestConcurrencyMiddleware_CustomRejectStatus(t *testing.T) {
	pool := infra.NewChanPool(1)
	_, _ = pool.Acquire(context.Background())

	h := ConcurrencyMiddleware(ConcurrencyOptions{
		Pool:           pool,
		RejectStatus:   http.StatusTooManyRequests,
		AcquireTimeout: time.Millisecond,
	})(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestConcurrencyMiddleware_DisabledWhenMaxZero(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := ConcurrencyMiddleware(ConcurrencyOptions{})(next)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example/", nil))
	if w.Code != http.StatusTeapot {
		t.Fatalf("expected passthrough, got %d", w.Code)
	}
}

func TestMiddlewares_InvalidRejectStatusFailsAtConstruction(t *testing.T) {
	mustPanic := func(name string, build func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatalf("%s: expected panic while building the middleware", name)
			}
		}()
		build()
	}

	mustPanic("concurrency", func() {
		ConcurrencyMiddleware(ConcurrencyOptions{Max: 1, RejectStatus: http.StatusOK})
	})
	mustPanic("rate limit", func() {
		Middleware(Options{Store: infra.NewStore(1, 1), RejectStatus: http.StatusOK})
	})
}
