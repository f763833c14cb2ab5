package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Memory implementa Store em memória.
type Memory struct {
	mu        sync.RWMutex
	assets    map[string]Asset
	libraries map[string]Library
	uploads   map[string]UploadToken
	usage     map[string]UsageDay
	settings  Settings
}

func NewMemory() *Memory {
	return &Memory{
		assets:    make(map[string]Asset),
		libraries: make(map[string]Library),
		uploads:   make(map[string]UploadToken),
		usage:     make(map[string]UsageDay),
		settings:  make(Settings),
	}
}

func (m *Memory) SaveAsset(_ context.Context, a Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[a.ID] = a
	return nil
}

func (m *Memory) GetAsset(_ context.Context, id string) (Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assets[id]
	if !ok {
		return Asset{}, ErrNotFound
	}
	return a, nil
}

func (m *Memory) DeleteAsset(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[id]; !ok {
		return ErrNotFound
	}
	delete(m.assets, id)
	return nil
}

func (m *Memory) CreateLibrary(_ context.Context, l Library) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.libraries[l.ID]; ok {
		return fmt.Errorf("store: library %s already exists", l.ID)
	}
	m.libraries[l.ID] = l
	return nil
}

func (m *Memory) GetLibrary(_ context.Context, id string) (Library, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.libraries[id]
	if !ok {
		return Library{}, ErrNotFound
	}
	return l, nil
}

func (m *Memory) ListLibraries(_ context.Context) ([]Library, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Library, 0, len(m.libraries))
	for _, l := range m.libraries {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) DeleteLibrary(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.libraries[id]; !ok {
		return ErrNotFound
	}
	delete(m.libraries, id)
	return nil
}

func (m *Memory) SaveUploadToken(_ context.Context, t UploadToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads[t.UploadID] = t
	return nil
}

func (m *Memory) ListUploadTokens(_ context.Context) ([]UploadToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]UploadToken, 0, len(m.uploads))
	for _, t := range m.uploads {
		out = append(out, t)
	}
	// mais recentes primeiro
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) IncrementUsage(_ context.Context, at time.Time, kind UsageKind) error {
	if !validKind(kind) {
		return fmt.Errorf("store: unknown usage kind %q", kind)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	d := dayOf(at)
	u := m.usage[d]
	u.Day = d
	switch kind {
	case UsageAssetCreated:
		u.AssetsCreated++
	case UsageUploadCreated:
		u.UploadsCreated++
	case UsageAssetDeleted:
		u.AssetsDeleted++
	}
	m.usage[d] = u
	return nil
}

func (m *Memory) ListUsage(_ context.Context, days int, now time.Time) ([]UsageDay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fillUsage(m.usage, days, now), nil
}

func (m *Memory) GetSettings(_ context.Context) (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(Settings, len(m.settings))
	for k, v := range m.settings {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) PutSettings(_ context.Context, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range s {
		m.settings[k] = v
	}
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }
