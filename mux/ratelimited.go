package mux

import (
	"context"

	"videoadmin/ratelimit/application"
)

// RateLimited faz toda operação de next passar pelo Dispatcher.
// Uma única instância (um único gate) deve ser compartilhada por todos os handlers.
type RateLimited struct {
	next Platform
	d    application.Dispatcher
}

func NewRateLimited(next Platform, d application.Dispatcher) *RateLimited {
	return &RateLimited{next: next, d: d}
}

func (r *RateLimited) CreateAsset(ctx context.Context, in CreateAssetInput) (Asset, error) {
	return application.Call(ctx, r.d, OpCreateAsset, func(ctx context.Context) (Asset, error) {
		return r.next.CreateAsset(ctx, in)
	})
}

func (r *RateLimited) GetAsset(ctx context.Context, id string) (Asset, error) {
	return application.Call(ctx, r.d, OpGetAsset, func(ctx context.Context) (Asset, error) {
		return r.next.GetAsset(ctx, id)
	})
}

func (r *RateLimited) ListAssets(ctx context.Context, p ListParams) ([]Asset, error) {
	return application.Call(ctx, r.d, OpListAssets, func(ctx context.Context) ([]Asset, error) {
		return r.next.ListAssets(ctx, p)
	})
}

func (r *RateLimited) DeleteAsset(ctx context.Context, id string) error {
	return r.d.Do(ctx, OpDeleteAsset, func(ctx context.Context) error {
		return r.next.DeleteAsset(ctx, id)
	})
}

func (r *RateLimited) CreateUpload(ctx context.Context, in CreateUploadInput) (Upload, error) {
	return application.Call(ctx, r.d, OpCreateUpload, func(ctx context.Context) (Upload, error) {
		return r.next.CreateUpload(ctx, in)
	})
}

func (r *RateLimited) GetUpload(ctx context.Context, id string) (Upload, error) {
	return application.Call(ctx, r.d, OpGetUpload, func(ctx context.Context) (Upload, error) {
		return r.next.GetUpload(ctx, id)
	})
}

func (r *RateLimited) Metrics(ctx context.Context, q MetricsQuery) (Breakdown, error) {
	return application.Call(ctx, r.d, OpMetrics, func(ctx context.Context) (Breakdown, error) {
		return r.next.Metrics(ctx, q)
	})
}
