package mux

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const DefaultBaseURL = "https://api.mux.com"

// maxErrorBody limita quanto do corpo de erro é lido.
const maxErrorBody = 64 << 10

// Client fala HTTP com a plataforma. Não aplica limite de vazão: use RateLimited.
type Client struct {
	baseURL     string
	tokenID     string
	tokenSecret string
	http        *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func NewClient(tokenID, tokenSecret string, opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		tokenID:     tokenID,
		tokenSecret: tokenSecret,
		http:        &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope de sucesso da plataforma: {"data": ...}
type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Type     string   `json:"type"`
		Messages []string `json:"messages"`
	} `json:"error"`
}

func (c *Client) CreateAsset(ctx context.Context, in CreateAssetInput) (Asset, error) {
	var out dataEnvelope[Asset]
	err := c.do(ctx, http.MethodPost, "/video/v1/assets", nil, in, &out)
	return out.Data, err
}

func (c *Client) GetAsset(ctx context.Context, id string) (Asset, error) {
	var out dataEnvelope[Asset]
	err := c.do(ctx, http.MethodGet, "/video/v1/assets/"+url.PathEscape(id), nil, nil, &out)
	return out.Data, err
}

func (c *Client) ListAssets(ctx context.Context, p ListParams) ([]Asset, error) {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	var out dataEnvelope[[]Asset]
	err := c.do(ctx, http.MethodGet, "/video/v1/assets", q, nil, &out)
	return out.Data, err
}

func (c *Client) DeleteAsset(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/video/v1/assets/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) CreateUpload(ctx context.Context, in CreateUploadInput) (Upload, error) {
	var out dataEnvelope[Upload]
	err := c.do(ctx, http.MethodPost, "/video/v1/uploads", nil, in, &out)
	return out.Data, err
}

func (c *Client) GetUpload(ctx context.Context, id string) (Upload, error) {
	var out dataEnvelope[Upload]
	err := c.do(ctx, http.MethodGet, "/video/v1/uploads/"+url.PathEscape(id), nil, nil, &out)
	return out.Data, err
}

func (c *Client) Metrics(ctx context.Context, mq MetricsQuery) (Breakdown, error) {
	q := url.Values{}
	for _, tf := range mq.Timeframe {
		q.Add("timeframe[]", tf)
	}
	if mq.GroupBy != "" {
		q.Set("group_by", mq.GroupBy)
	}
	var out Breakdown
	err := c.do(ctx, http.MethodGet, "/data/v1/metrics/"+url.PathEscape(mq.Metric)+"/breakdown", q, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	body := io.Reader(http.NoBody)
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("mux: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("mux: create request: %w", err)
	}
	req.SetBasicAuth(c.tokenID, c.tokenSecret)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mux: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("mux: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	e := &Error{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil {
		e.Type = env.Error.Type
		e.Messages = env.Error.Messages
	} else if s := strings.TrimSpace(string(raw)); s != "" {
		e.Messages = []string{s}
	}
	return e
}
