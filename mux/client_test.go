package mux

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient("id", "secret", WithBaseURL(srv.URL))
}

func TestClient_CreateAsset(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/video/v1/assets", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "id", user)
		assert.Equal(t, "secret", pass)

		var in CreateAssetInput
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &in))
		assert.Equal(t, "https://example.com/v.mp4", in.Inputs[0].URL)
		assert.Equal(t, []string{"public"}, in.PlaybackPolicy)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"data":{"id":"a1","status":"preparing","playback_ids":[{"id":"p1","policy":"public"}]}}`)
	})

	a, err := c.CreateAsset(context.Background(), CreateAssetInput{
		Inputs:         []AssetInput{{URL: "https://example.com/v.mp4"}},
		PlaybackPolicy: []string{"public"},
	})
	require.NoError(t, err)
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "p1", a.PlaybackIDs[0].ID)
}

func TestClient_ListAssetsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `{"data":[{"id":"a1"},{"id":"a2"}]}`)
	})

	list, err := c.ListAssets(context.Background(), ListParams{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestClient_MetricsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/v1/metrics/video_startup_time/breakdown", r.URL.Path)
		assert.Equal(t, []string{"7:days"}, r.URL.Query()["timeframe[]"])
		assert.Equal(t, "country", r.URL.Query().Get("group_by"))
		_, _ = io.WriteString(w, `{"data":[{"field":"BR","value":1.5,"views":3}],"total_row_count":1,"timeframe":[1,2]}`)
	})

	b, err := c.Metrics(context.Background(), MetricsQuery{Metric: "video_startup_time", Timeframe: []string{"7:days"}, GroupBy: "country"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.TotalRowCount)
	assert.Equal(t, "BR", b.Data[0].Field)
}

func TestClient_DeleteAssetNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.DeleteAsset(context.Background(), "a1"))
}

func TestClient_ErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"type":"not_found","messages":["The requested asset does not exist"]}}`)
	})

	_, err := c.GetAsset(context.Background(), "missing")
	require.Error(t, err)

	var me *Error
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "not_found", me.Type)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsClientError(err))
	assert.Contains(t, err.Error(), "does not exist")
}

func TestClient_NonJSONError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	})

	_, err := c.GetUpload(context.Background(), "u1")
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.False(t, IsClientError(err))
	assert.Contains(t, err.Error(), "upstream down")
}

func TestStatusOf_NonRemoteError(t *testing.T) {
	assert.Equal(t, 0, StatusOf(errors.New("dial tcp: refused")))
	assert.False(t, IsNotFound(nil))
}
