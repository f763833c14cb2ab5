package main

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"videoadmin/logging"
	"videoadmin/mux"
)

type platform struct {
	latency time.Duration
	hits    atomic.Int64

	mu      sync.RWMutex
	assets  map[string]mux.Asset
	uploads map[string]mux.Upload
}

func newPlatform(latency time.Duration) *platform {
	return &platform{
		latency: latency,
		assets:  make(map[string]mux.Asset),
		uploads: make(map[string]mux.Upload),
	}
}

func (p *platform) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(p.count)

	r.Route("/video/v1", func(r chi.Router) {
		r.Post("/assets", p.createAsset)
		r.Get("/assets", p.listAssets)
		r.Get("/assets/{id}", p.getAsset)
		r.Delete("/assets/{id}", p.deleteAsset)
		r.Post("/uploads", p.createUpload)
		r.Get("/uploads/{id}", p.getUpload)
	})
	r.Get("/data/v1/metrics/{metric}/breakdown", p.metrics)
	return r
}

// count soma a chamada e aplica a latência artificial.
func (p *platform) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.hits.Add(1)
		if p.latency > 0 {
			time.Sleep(p.latency)
		}
		next.ServeHTTP(w, r)
	})
}

// reportRate loga as chamadas recebidas a cada segundo (só quando houve alguma).
func (p *platform) reportRate(ctx context.Context) {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := p.hits.Swap(0); n > 0 {
				logging.Info().Int64("calls", n).Msg("calls in the last second")
			}
		}
	}
}

func (p *platform) createAsset(w http.ResponseWriter, r *http.Request) {
	var in mux.CreateAssetInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || len(in.Inputs) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameters", "input is required")
		return
	}
	policy := "public"
	if len(in.PlaybackPolicy) > 0 {
		policy = in.PlaybackPolicy[0]
	}
	a := mux.Asset{
		ID:          strings.ReplaceAll(uuid.NewString(), "-", ""),
		Status:      "preparing",
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Passthrough: in.Passthrough,
		PlaybackIDs: []mux.PlaybackID{{ID: strings.ReplaceAll(uuid.NewString(), "-", ""), Policy: policy}},
	}
	p.mu.Lock()
	p.assets[a.ID] = a
	p.mu.Unlock()
	writeData(w, http.StatusCreated, a)
}

func (p *platform) listAssets(w http.ResponseWriter, r *http.Request) {
	p.mu.RLock()
	out := make([]mux.Asset, 0, len(p.assets))
	for _, a := range p.assets {
		out = append(out, a)
	}
	p.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	writeData(w, http.StatusOK, out)
}

func (p *platform) getAsset(w http.ResponseWriter, r *http.Request) {
	p.mu.RLock()
	a, ok := p.assets[chi.URLParam(r, "id")]
	p.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "asset not found")
		return
	}
	writeData(w, http.StatusOK, a)
}

func (p *platform) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p.mu.Lock()
	_, ok := p.assets[id]
	delete(p.assets, id)
	p.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "asset not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (p *platform) createUpload(w http.ResponseWriter, r *http.Request) {
	var in mux.CreateUploadInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameters", "invalid body")
		return
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	up := mux.Upload{
		ID:         id,
		Status:     "waiting",
		URL:        "http://" + r.Host + "/upload/" + id,
		CorsOrigin: in.CorsOrigin,
		Timeout:    3600,
	}
	p.mu.Lock()
	p.uploads[id] = up
	p.mu.Unlock()
	writeData(w, http.StatusCreated, up)
}

func (p *platform) getUpload(w http.ResponseWriter, r *http.Request) {
	p.mu.RLock()
	up, ok := p.uploads[chi.URLParam(r, "id")]
	p.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "upload not found")
		return
	}
	writeData(w, http.StatusOK, up)
}

func (p *platform) metrics(w http.ResponseWriter, r *http.Request) {
	now := time.Now().Unix()
	out := mux.Breakdown{
		Data: []mux.BreakdownValue{
			{Field: "BR", Value: 1.2, Views: 120},
			{Field: "PT", Value: 0.8, Views: 40},
		},
		TotalRowCount: 2,
		Timeframe:     []int64{now - 7*24*3600, now},
	}
	writeJSON(w, http.StatusOK, out)
}

func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, map[string]any{"data": v})
}

func writeError(w http.ResponseWriter, status int, typ, msg string) {
	writeJSON(w, status, map[string]any{"error": map[string]any{"type": typ, "messages": []string{msg}}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
