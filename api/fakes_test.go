package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"videoadmin/auth"
	"videoadmin/mux"
	"videoadmin/store"
)

type staticAuth struct{ deny bool }

func (a staticAuth) Resolve(*http.Request) (auth.Caller, error) {
	if a.deny {
		return auth.Caller{}, auth.ErrNoCredentials
	}
	return auth.Caller{Subject: "tester", Role: "admin"}, nil
}

// fakePlatform conta chamadas e guarda o instante de cada despacho.
type fakePlatform struct {
	err   error
	calls atomic.Int64

	mu         sync.Mutex
	dispatched []time.Time
	lastCreate mux.CreateAssetInput
}

func (f *fakePlatform) hit() {
	f.calls.Add(1)
	f.mu.Lock()
	f.dispatched = append(f.dispatched, time.Now())
	f.mu.Unlock()
}

func (f *fakePlatform) times() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.dispatched...)
}

func (f *fakePlatform) CreateAsset(_ context.Context, in mux.CreateAssetInput) (mux.Asset, error) {
	f.hit()
	f.mu.Lock()
	f.lastCreate = in
	f.mu.Unlock()
	if f.err != nil {
		return mux.Asset{}, f.err
	}
	return mux.Asset{
		ID:          fmt.Sprintf("asset%d", f.calls.Load()),
		Status:      "preparing",
		PlaybackIDs: []mux.PlaybackID{{ID: "pb1", Policy: in.PlaybackPolicy[0]}},
		Passthrough: in.Passthrough,
	}, nil
}

func (f *fakePlatform) GetAsset(_ context.Context, id string) (mux.Asset, error) {
	f.hit()
	return mux.Asset{ID: id, Status: "ready"}, f.err
}

func (f *fakePlatform) ListAssets(context.Context, mux.ListParams) ([]mux.Asset, error) {
	f.hit()
	return []mux.Asset{{ID: "a1", Status: "ready"}}, f.err
}

func (f *fakePlatform) DeleteAsset(context.Context, string) error {
	f.hit()
	return f.err
}

func (f *fakePlatform) CreateUpload(_ context.Context, in mux.CreateUploadInput) (mux.Upload, error) {
	f.hit()
	return mux.Upload{ID: "up1", Status: "waiting", URL: "https://storage.example/up1", CorsOrigin: in.CorsOrigin}, f.err
}

func (f *fakePlatform) GetUpload(_ context.Context, id string) (mux.Upload, error) {
	f.hit()
	return mux.Upload{ID: id, Status: "waiting"}, f.err
}

func (f *fakePlatform) Metrics(context.Context, mux.MetricsQuery) (mux.Breakdown, error) {
	f.hit()
	return mux.Breakdown{Data: []mux.BreakdownValue{{Field: "BR", Value: 12, Views: 3}}, TotalRowCount: 1}, f.err
}

var errStoreDown = errors.New("store down")

// countingStore envolve store.Memory, conta chamadas e pode falhar métodos específicos.
type countingStore struct {
	*store.Memory
	calls atomic.Int64
	fail  map[string]bool
}

func newCountingStore() *countingStore {
	return &countingStore{Memory: store.NewMemory(), fail: map[string]bool{}}
}

func (s *countingStore) check(method string) error {
	s.calls.Add(1)
	if s.fail[method] {
		return errStoreDown
	}
	return nil
}

func (s *countingStore) SaveAsset(ctx context.Context, a store.Asset) error {
	if err := s.check("SaveAsset"); err != nil {
		return err
	}
	return s.Memory.SaveAsset(ctx, a)
}

func (s *countingStore) GetAsset(ctx context.Context, id string) (store.Asset, error) {
	if err := s.check("GetAsset"); err != nil {
		return store.Asset{}, err
	}
	return s.Memory.GetAsset(ctx, id)
}

func (s *countingStore) DeleteAsset(ctx context.Context, id string) error {
	if err := s.check("DeleteAsset"); err != nil {
		return err
	}
	return s.Memory.DeleteAsset(ctx, id)
}

func (s *countingStore) CreateLibrary(ctx context.Context, l store.Library) error {
	if err := s.check("CreateLibrary"); err != nil {
		return err
	}
	return s.Memory.CreateLibrary(ctx, l)
}

func (s *countingStore) GetLibrary(ctx context.Context, id string) (store.Library, error) {
	if err := s.check("GetLibrary"); err != nil {
		return store.Library{}, err
	}
	return s.Memory.GetLibrary(ctx, id)
}

func (s *countingStore) ListLibraries(ctx context.Context) ([]store.Library, error) {
	if err := s.check("ListLibraries"); err != nil {
		return nil, err
	}
	return s.Memory.ListLibraries(ctx)
}

func (s *countingStore) DeleteLibrary(ctx context.Context, id string) error {
	if err := s.check("DeleteLibrary"); err != nil {
		return err
	}
	return s.Memory.DeleteLibrary(ctx, id)
}

func (s *countingStore) SaveUploadToken(ctx context.Context, t store.UploadToken) error {
	if err := s.check("SaveUploadToken"); err != nil {
		return err
	}
	return s.Memory.SaveUploadToken(ctx, t)
}

func (s *countingStore) ListUploadTokens(ctx context.Context) ([]store.UploadToken, error) {
	if err := s.check("ListUploadTokens"); err != nil {
		return nil, err
	}
	return s.Memory.ListUploadTokens(ctx)
}

func (s *countingStore) IncrementUsage(ctx context.Context, at time.Time, kind store.UsageKind) error {
	if err := s.check("IncrementUsage"); err != nil {
		return err
	}
	return s.Memory.IncrementUsage(ctx, at, kind)
}

func (s *countingStore) ListUsage(ctx context.Context, days int, now time.Time) ([]store.UsageDay, error) {
	if err := s.check("ListUsage"); err != nil {
		return nil, err
	}
	return s.Memory.ListUsage(ctx, days, now)
}

func (s *countingStore) GetSettings(ctx context.Context) (store.Settings, error) {
	if err := s.check("GetSettings"); err != nil {
		return nil, err
	}
	return s.Memory.GetSettings(ctx)
}

func (s *countingStore) PutSettings(ctx context.Context, st store.Settings) error {
	if err := s.check("PutSettings"); err != nil {
		return err
	}
	return s.Memory.PutSettings(ctx, st)
}

func (s *countingStore) Ping(ctx context.Context) error {
	if s.fail["Ping"] {
		return errStoreDown
	}
	return nil
}
