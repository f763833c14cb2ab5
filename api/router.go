package api

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"videoadmin/logging"
	"videoadmin/metrics"
	"videoadmin/respond"
	"videoadmin/result"
)

type RouterConfig struct {
	CORSOrigins []string
	// Metrics é opcional; quando presente mede requests e expõe /metrics.
	Metrics *metrics.Metrics
	// Inbound protege o grupo /api (rate limit por chamador, concorrência).
	Inbound []func(http.Handler) http.Handler
}

func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.NotFound(public(routingTable, func(*http.Request) result.Result[struct{}, Code] {
		return result.Err[struct{}](CodeRouteNotFound, messageFor(CodeRouteNotFound))
	}))
	r.MethodNotAllowed(public(routingTable, func(*http.Request) result.Result[struct{}, Code] {
		return result.Err[struct{}](CodeMethodNotAllowed, messageFor(CodeMethodNotAllowed))
	}))

	r.Get("/healthz", public(healthTable, h.health))

	r.Route("/api", func(r chi.Router) {
		r.Use(cfg.Inbound...)

		r.Get("/assets", serve(h, listAssetsTable, h.listAssets))
		r.Post("/assets", serve(h, createAssetTable, h.createAsset))
		r.Get("/assets/{id}", serve(h, getAssetTable, h.getAsset))
		r.Delete("/assets/{id}", serve(h, deleteAssetTable, h.deleteAsset))

		r.Get("/uploads", serve(h, listUploadsTable, h.listUploads))
		r.Post("/uploads", serve(h, createUploadTable, h.createUpload))
		r.Get("/uploads/{id}", serve(h, getUploadTable, h.getUpload))

		r.Get("/analytics/{metric}", serve(h, analyticsTable, h.analytics))
		r.Get("/usage", serve(h, usageTable, h.usage))

		r.Get("/libraries", serve(h, listLibsTable, h.listLibraries))
		r.Post("/libraries", serve(h, createLibTable, h.createLibrary))
		r.Delete("/libraries/{id}", serve(h, deleteLibTable, h.deleteLibrary))

		r.Get("/settings", serve(h, getSettingsTable, h.getSettings))
		r.Put("/settings", serve(h, putSettingsTable, h.putSettings))
	})

	return r
}

type health struct {
	Status string    `json:"status"`
	Store  string    `json:"store"`
	Time   time.Time `json:"time"`
}

// health sempre responde Ok; o estado do banco vai no corpo.
func (h *Handler) health(r *http.Request) result.Result[health, Code] {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	out := health{Status: "ok", Store: "ok", Time: h.now().UTC()}
	if err := h.store.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("store ping failed")
		out.Status, out.Store = "degraded", "unavailable"
	}
	return result.Ok[health, Code](out)
}

// requestID aceita o X-Request-ID do cliente ou gera um, e coloca os ids no contexto de log.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = logging.NewRequestID()
		}
		w.Header().Set(middleware.RequestIDHeader, id)

		ctx := logging.ContextWithRequestID(r.Context(), id)
		ctx = logging.ContextWithCorrelationID(ctx, logging.NewCorrelationID())
		ctx = context.WithValue(ctx, middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		ev := logging.Ctx(r.Context()).Info()
		if status >= http.StatusInternalServerError {
			ev = logging.Ctx(r.Context()).Warn()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Str("remote", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// recoverer troca o 500 em texto do chi por um envelope INTERNAL_ERROR.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logging.Ctx(r.Context()).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			res := result.Err[struct{}](CodeInternal, messageFor(CodeInternal))
			write(w, r, respond.Map(res, routingTable, nil))
		}()
		next.ServeHTTP(w, r)
	})
}
