package ratelimit

import (
	"net/http"
	"time"

	"videoadmin/ratelimit/application"
	"videoadmin/ratelimit/domain"
	"videoadmin/ratelimit/infra"
)

type ConcurrencyOptions struct {
	Max            int
	RejectStatus   int
	AcquireTimeout time.Duration
	// Pool substitui o semáforo padrão (infra.NewChanPool(Max)).
	Pool domain.SlotPool
}

// ConcurrencyMiddleware limita requests em andamento. Sem vaga => envelope SERVER_BUSY.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 && opts.Pool == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}
	if opts.Pool == nil {
		opts.Pool = infra.NewChanPool(opts.Max)
	}

	table := rejectTable(CodeServerBusy, opts.RejectStatus)
	svc := application.ConcurrencyService{
		Pool:           opts.Pool,
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, err := svc.Acquire(r.Context())
			if err != nil {
				reject(w, table, CodeServerBusy, "Server busy, try again", nil)
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
