package mux

import (
	"context"
	"sync/atomic"
)

// fakePlatform devolve err (ou valores fixos) e conta as chamadas.
type fakePlatform struct {
	err   error
	calls atomic.Int64
}

func (f *fakePlatform) CreateAsset(context.Context, CreateAssetInput) (Asset, error) {
	f.calls.Add(1)
	return Asset{ID: "a1"}, f.err
}

func (f *fakePlatform) GetAsset(_ context.Context, id string) (Asset, error) {
	f.calls.Add(1)
	return Asset{ID: id}, f.err
}

func (f *fakePlatform) ListAssets(context.Context, ListParams) ([]Asset, error) {
	f.calls.Add(1)
	return []Asset{{ID: "a1"}}, f.err
}

func (f *fakePlatform) DeleteAsset(context.Context, string) error {
	f.calls.Add(1)
	return f.err
}

func (f *fakePlatform) CreateUpload(context.Context, CreateUploadInput) (Upload, error) {
	f.calls.Add(1)
	return Upload{ID: "u1"}, f.err
}

func (f *fakePlatform) GetUpload(_ context.Context, id string) (Upload, error) {
	f.calls.Add(1)
	return Upload{ID: id}, f.err
}

func (f *fakePlatform) Metrics(context.Context, MetricsQuery) (Breakdown, error) {
	f.calls.Add(1)
	return Breakdown{}, f.err
}
