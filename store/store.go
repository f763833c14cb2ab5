// Package store guarda o que a plataforma de vídeo não guarda: bibliotecas,
// metadados de assets, tokens de upload, contadores de uso e configurações.
//
// Memory serve para testes e desenvolvimento; Postgres para produção.
package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("store: not found")

type Asset struct {
	ID         string    `json:"id"`
	LibraryID  string    `json:"library_id"`
	Title      string    `json:"title"`
	SourceURL  string    `json:"source_url"`
	PlaybackID string    `json:"playback_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Library struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type UploadToken struct {
	UploadID  string    `json:"upload_id"`
	LibraryID string    `json:"library_id"`
	Status    string    `json:"status"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type UsageKind string

const (
	UsageAssetCreated  UsageKind = "assets_created"
	UsageUploadCreated UsageKind = "uploads_created"
	UsageAssetDeleted  UsageKind = "assets_deleted"
)

type UsageDay struct {
	Day            string `json:"day"` // YYYY-MM-DD (UTC)
	AssetsCreated  int64  `json:"assets_created"`
	UploadsCreated int64  `json:"uploads_created"`
	AssetsDeleted  int64  `json:"assets_deleted"`
}

type Settings map[string]string

type Store interface {
	SaveAsset(ctx context.Context, a Asset) error
	GetAsset(ctx context.Context, id string) (Asset, error)
	DeleteAsset(ctx context.Context, id string) error

	CreateLibrary(ctx context.Context, l Library) error
	GetLibrary(ctx context.Context, id string) (Library, error)
	ListLibraries(ctx context.Context) ([]Library, error)
	DeleteLibrary(ctx context.Context, id string) error

	SaveUploadToken(ctx context.Context, t UploadToken) error
	ListUploadTokens(ctx context.Context) ([]UploadToken, error)

	IncrementUsage(ctx context.Context, at time.Time, kind UsageKind) error
	// ListUsage devolve exatamente days dias terminando no dia de now, dias sem uso com zero.
	ListUsage(ctx context.Context, days int, now time.Time) ([]UsageDay, error)

	GetSettings(ctx context.Context) (Settings, error)
	PutSettings(ctx context.Context, s Settings) error

	Ping(ctx context.Context) error
}

const dayLayout = "2006-01-02"

func dayOf(t time.Time) string { return t.UTC().Format(dayLayout) }

// fillUsage monta a série contínua de days dias a partir do que existe em byDay.
func fillUsage(byDay map[string]UsageDay, days int, now time.Time) []UsageDay {
	if days <= 0 {
		return []UsageDay{}
	}
	out := make([]UsageDay, 0, days)
	start := now.UTC().AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		d := dayOf(start.AddDate(0, 0, i))
		u, ok := byDay[d]
		if !ok {
			u = UsageDay{Day: d}
		}
		out = append(out, u)
	}
	return out
}

func validKind(k UsageKind) bool {
	switch k {
	case UsageAssetCreated, UsageUploadCreated, UsageAssetDeleted:
		return true
	}
	return false
}
