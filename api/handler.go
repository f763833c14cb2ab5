// Package api expõe a API admin: cada handler autoriza, valida, executa e
// devolve um Result que respond.Map converte em status + envelope.
//
// Nenhuma chamada remota ou ao banco acontece antes da validação passar.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"videoadmin/auth"
	"videoadmin/logging"
	"videoadmin/mux"
	"videoadmin/ratelimit/domain"
	"videoadmin/respond"
	"videoadmin/result"
	"videoadmin/store"
)

// Deps são os colaboradores dos handlers.
type Deps struct {
	Auth     auth.Authorizer
	Platform mux.Platform
	Store    store.Store
	// Now é o relógio usado em registros e contadores de uso; nil => time.Now.
	Now func() time.Time
}

type Handler struct {
	auth     auth.Authorizer
	platform mux.Platform
	store    store.Store
	now      func() time.Time
}

func New(d Deps) (*Handler, error) {
	if d.Auth == nil {
		return nil, errors.New("api: authorizer is required")
	}
	if d.Platform == nil {
		return nil, errors.New("api: platform is required")
	}
	if d.Store == nil {
		return nil, errors.New("api: store is required")
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Handler{auth: d.Auth, platform: d.Platform, store: d.Store, now: d.Now}, nil
}

// serve adapta o corpo de um endpoint para http: autoriza, executa, mapeia e escreve.
func serve[T any](h *Handler, table respond.Table[Code], fn func(*http.Request) result.Result[T, Code]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var res result.Result[T, Code]
		caller, err := h.auth.Resolve(r)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("unauthorized request")
			res = result.Err[T](CodeAuthRequired)
		} else {
			res = fn(r.WithContext(auth.WithCaller(r.Context(), caller)))
		}
		write(w, r, respond.Map(res, table, nil))
	}
}

// public é serve sem autorização.
func public[T any](table respond.Table[Code], fn func(*http.Request) result.Result[T, Code]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		write(w, r, respond.Map(fn(r), table, nil))
	}
}

func write(w http.ResponseWriter, r *http.Request, resp respond.Response) {
	if err := respond.Write(w, resp); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int("status", resp.Status).Msg("failed to write response")
	}
}

// remoteFailure classifica um erro da plataforma: 404 remoto => notFound, fila cheia
// => RATE_LIMIT_QUEUE_FULL, o resto => failed. O erro bruto só vai para o log.
func remoteFailure[T any](ctx context.Context, err error, notFound, failed Code) result.Result[T, Code] {
	code := failed
	switch {
	case notFound != "" && mux.IsNotFound(err):
		code = notFound
	case errors.Is(err, domain.ErrQueueFull):
		code = CodeQueueFull
	}
	logging.Ctx(ctx).Warn().Err(err).Int("remote_status", mux.StatusOf(err)).Str("code", string(code)).Msg("remote call failed")
	return result.Err[T](code, messageFor(code))
}

// storeFailure é o equivalente para o banco: store.ErrNotFound => notFound.
func storeFailure[T any](ctx context.Context, err error, notFound, failed Code) result.Result[T, Code] {
	code := failed
	if notFound != "" && errors.Is(err, store.ErrNotFound) {
		code = notFound
	}
	logging.Ctx(ctx).Error().Err(err).Str("code", string(code)).Msg("storage call failed")
	return result.Err[T](code, messageFor(code))
}

// bookkeeping registra uso depois de uma operação bem sucedida; falha só é logada.
func (h *Handler) bookkeeping(ctx context.Context, kind store.UsageKind) {
	if err := h.store.IncrementUsage(context.WithoutCancel(ctx), h.now(), kind); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("kind", string(kind)).Msg("failed to record usage")
	}
}
