package fetch

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) ListAssets(ctx context.Context, page, limit int) Result[AssetList] {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return Do[AssetList](ctx, c, http.MethodGet, withQuery("/api/assets", q), nil)
}

func (c *Client) GetAsset(ctx context.Context, id string) Result[Asset] {
	return Do[Asset](ctx, c, http.MethodGet, "/api/assets/"+url.PathEscape(id), nil)
}

func (c *Client) CreateAsset(ctx context.Context, in CreateAssetInput) Result[Asset] {
	return Do[Asset](ctx, c, http.MethodPost, "/api/assets", in)
}

func (c *Client) DeleteAsset(ctx context.Context, id string) Result[Deleted] {
	return Do[Deleted](ctx, c, http.MethodDelete, "/api/assets/"+url.PathEscape(id), nil)
}

func (c *Client) CreateUpload(ctx context.Context, in CreateUploadInput) Result[Upload] {
	return Do[Upload](ctx, c, http.MethodPost, "/api/uploads", in)
}

func (c *Client) ListUploads(ctx context.Context) Result[[]UploadToken] {
	return Do[[]UploadToken](ctx, c, http.MethodGet, "/api/uploads", nil)
}

func (c *Client) GetUpload(ctx context.Context, id string) Result[Upload] {
	return Do[Upload](ctx, c, http.MethodGet, "/api/uploads/"+url.PathEscape(id), nil)
}

// Analytics busca uma métrica; timeframe e groupBy vazios usam o padrão do servidor.
func (c *Client) Analytics(ctx context.Context, metric, timeframe, groupBy string) Result[Analytics] {
	q := url.Values{}
	if timeframe != "" {
		q.Set("timeframe", timeframe)
	}
	if groupBy != "" {
		q.Set("group_by", groupBy)
	}
	return Do[Analytics](ctx, c, http.MethodGet, withQuery("/api/analytics/"+url.PathEscape(metric), q), nil)
}

func (c *Client) Usage(ctx context.Context, days int) Result[[]UsageDay] {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	return Do[[]UsageDay](ctx, c, http.MethodGet, withQuery("/api/usage", q), nil)
}

func (c *Client) ListLibraries(ctx context.Context) Result[[]Library] {
	return Do[[]Library](ctx, c, http.MethodGet, "/api/libraries", nil)
}

func (c *Client) CreateLibrary(ctx context.Context, name string) Result[Library] {
	return Do[Library](ctx, c, http.MethodPost, "/api/libraries", map[string]string{"name": name})
}

func (c *Client) DeleteLibrary(ctx context.Context, id string) Result[Deleted] {
	return Do[Deleted](ctx, c, http.MethodDelete, "/api/libraries/"+url.PathEscape(id), nil)
}

func (c *Client) GetSettings(ctx context.Context) Result[Settings] {
	return Do[Settings](ctx, c, http.MethodGet, "/api/settings", nil)
}

func (c *Client) PutSettings(ctx context.Context, s Settings) Result[Settings] {
	return Do[Settings](ctx, c, http.MethodPut, "/api/settings", map[string]Settings{"settings": s})
}

func (c *Client) Health(ctx context.Context) Result[Health] {
	return Do[Health](ctx, c, http.MethodGet, "/healthz", nil)
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
