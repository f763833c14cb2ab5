package mux

import "context"

// Platform são as operações remotas usadas pela API admin.
type Platform interface {
	CreateAsset(ctx context.Context, in CreateAssetInput) (Asset, error)
	GetAsset(ctx context.Context, id string) (Asset, error)
	ListAssets(ctx context.Context, p ListParams) ([]Asset, error)
	DeleteAsset(ctx context.Context, id string) error
	CreateUpload(ctx context.Context, in CreateUploadInput) (Upload, error)
	GetUpload(ctx context.Context, id string) (Upload, error)
	Metrics(ctx context.Context, q MetricsQuery) (Breakdown, error)
}

type PlaybackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

type Asset struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	Duration    float64      `json:"duration,omitempty"`
	AspectRatio string       `json:"aspect_ratio,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
	PlaybackIDs []PlaybackID `json:"playback_ids,omitempty"`
	Passthrough string       `json:"passthrough,omitempty"`
}

type AssetInput struct {
	URL string `json:"url"`
}

type CreateAssetInput struct {
	Inputs         []AssetInput `json:"input"`
	PlaybackPolicy []string     `json:"playback_policy,omitempty"`
	// Passthrough volta intacto no asset; usamos para o id da biblioteca.
	Passthrough string `json:"passthrough,omitempty"`
}

type ListParams struct {
	Page  int
	Limit int
}

type Upload struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	URL        string `json:"url,omitempty"`
	AssetID    string `json:"asset_id,omitempty"`
	CorsOrigin string `json:"cors_origin,omitempty"`
	Timeout    int    `json:"timeout,omitempty"`
}

type NewAssetSettings struct {
	PlaybackPolicy []string `json:"playback_policy,omitempty"`
	Passthrough    string   `json:"passthrough,omitempty"`
}

type CreateUploadInput struct {
	CorsOrigin       string           `json:"cors_origin"`
	NewAssetSettings NewAssetSettings `json:"new_asset_settings"`
}

type MetricsQuery struct {
	Metric    string
	Timeframe []string
	GroupBy   string
}

type BreakdownValue struct {
	Field          string  `json:"field"`
	Value          float64 `json:"value"`
	Views          int64   `json:"views"`
	TotalWatchTime int64   `json:"total_watch_time,omitempty"`
}

type Breakdown struct {
	Data          []BreakdownValue `json:"data"`
	TotalRowCount int64            `json:"total_row_count"`
	Timeframe     []int64          `json:"timeframe"`
}

// Nomes de operação usados em stats e métricas.
const (
	OpCreateAsset  = "create_asset"
	OpGetAsset     = "get_asset"
	OpListAssets   = "list_assets"
	OpDeleteAsset  = "delete_asset"
	OpCreateUpload = "create_upload"
	OpGetUpload    = "get_upload"
	OpMetrics      = "metrics"
)
