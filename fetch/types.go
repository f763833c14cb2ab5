package fetch

import "time"

// Formas das respostas da API admin, com as regras que o cliente exige.

type PlaybackID struct {
	ID     string `json:"id" validate:"required"`
	Policy string `json:"policy"`
}

type Asset struct {
	ID          string       `json:"id" validate:"required"`
	Status      string       `json:"status" validate:"required"`
	Duration    float64      `json:"duration,omitempty" validate:"gte=0"`
	AspectRatio string       `json:"aspect_ratio,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
	PlaybackIDs []PlaybackID `json:"playback_ids,omitempty" validate:"dive"`
	Passthrough string       `json:"passthrough,omitempty"`
	Title       string       `json:"title,omitempty"`
	LibraryID   string       `json:"library_id,omitempty"`
	SourceURL   string       `json:"source_url,omitempty"`
}

type AssetList struct {
	Assets []Asset `json:"assets" validate:"required,dive"`
	Page   int     `json:"page" validate:"gte=1"`
	Limit  int     `json:"limit" validate:"gte=1"`
}

type CreateAssetInput struct {
	URLs           []string `json:"urls"`
	Title          string   `json:"title,omitempty"`
	LibraryID      string   `json:"library_id,omitempty"`
	PlaybackPolicy string   `json:"playback_policy,omitempty"`
}

type Deleted struct {
	ID      string `json:"id" validate:"required"`
	Deleted bool   `json:"deleted"`
}

type Upload struct {
	ID         string `json:"id" validate:"required"`
	Status     string `json:"status" validate:"required"`
	URL        string `json:"url,omitempty" validate:"omitempty,url"`
	AssetID    string `json:"asset_id,omitempty"`
	CorsOrigin string `json:"cors_origin,omitempty"`
}

type CreateUploadInput struct {
	CorsOrigin     string `json:"cors_origin"`
	LibraryID      string `json:"library_id,omitempty"`
	PlaybackPolicy string `json:"playback_policy,omitempty"`
}

type UploadToken struct {
	UploadID  string    `json:"upload_id" validate:"required"`
	LibraryID string    `json:"library_id"`
	Status    string    `json:"status"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type BreakdownValue struct {
	Field          string  `json:"field"`
	Value          float64 `json:"value"`
	Views          int64   `json:"views" validate:"gte=0"`
	TotalWatchTime int64   `json:"total_watch_time,omitempty"`
}

type Analytics struct {
	Metric        string           `json:"metric" validate:"required"`
	Timeframe     string           `json:"timeframe" validate:"required"`
	GroupBy       string           `json:"group_by" validate:"required"`
	Data          []BreakdownValue `json:"data" validate:"required,dive"`
	TotalRowCount int64            `json:"total_row_count" validate:"gte=0"`
}

type UsageDay struct {
	Day            string `json:"day" validate:"required,datetime=2006-01-02"`
	AssetsCreated  int64  `json:"assets_created" validate:"gte=0"`
	UploadsCreated int64  `json:"uploads_created" validate:"gte=0"`
	AssetsDeleted  int64  `json:"assets_deleted" validate:"gte=0"`
}

type Library struct {
	ID        string    `json:"id" validate:"required,uuid"`
	Name      string    `json:"name" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

type Settings map[string]string

type Health struct {
	Status string    `json:"status" validate:"required,oneof=ok degraded"`
	Store  string    `json:"store"`
	Time   time.Time `json:"time"`
}
