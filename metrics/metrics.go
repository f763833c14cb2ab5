// Package metrics expõe as métricas Prometheus do gateway e da API admin.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker/v2"

	"videoadmin/ratelimit/domain"
)

const namespace = "videoadmin"

type Metrics struct {
	reg *prometheus.Registry

	remoteCalls  *prometheus.CounterVec
	permitWait   *prometheus.HistogramVec
	inbound      *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	breakerState *prometheus.GaugeVec
}

// New cria um registry próprio (com collectors de processo e runtime).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		remoteCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_calls_total",
			Help:      "Calls to the video platform by operation and outcome.",
		}, []string{"op", "outcome"}),
		permitWait: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_permit_wait_seconds",
			Help:      "Time spent waiting for a rate limit permit.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"op"}),
		inbound: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_decisions_total",
			Help:      "Per-caller rate limit decisions on the admin API.",
		}, []string{"outcome"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Admin API requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Admin API latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		breakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
		}, []string{"name"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// RegisterPending expõe o tamanho da fila do gate.
func (m *Metrics) RegisterPending(fn func() int) {
	m.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ratelimit_pending",
		Help:      "Requests waiting for a rate limit permit.",
	}, func() float64 { return float64(fn()) }))
}

// BreakerStateChange serve como mux.BreakerConfig.OnStateChange.
func (m *Metrics) BreakerStateChange(name string, _, to gobreaker.State) {
	m.breakerState.WithLabelValues(name).Set(float64(to))
}

// Remote é o domain.StatsStore do Dispatcher.
func (m *Metrics) Remote() domain.StatsStore { return remoteStats{m} }

// Inbound é o domain.StatsStore do middleware de entrada. Não usa Key como label.
func (m *Metrics) Inbound() domain.StatsStore { return inboundStats{m} }

type remoteStats struct{ m *Metrics }

func (s remoteStats) Record(_ context.Context, ev domain.StatsEvent) error {
	s.m.remoteCalls.WithLabelValues(ev.Op, string(ev.Outcome)).Inc()
	s.m.permitWait.WithLabelValues(ev.Op).Observe(ev.Waited.Seconds())
	return nil
}

type inboundStats struct{ m *Metrics }

func (s inboundStats) Record(_ context.Context, ev domain.StatsEvent) error {
	s.m.inbound.WithLabelValues(string(ev.Outcome)).Inc()
	return nil
}

// Middleware mede requests usando o padrão da rota chi (baixa cardinalidade).
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
