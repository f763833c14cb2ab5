package main

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videoadmin/mux"
)

func TestRootCommand_Flags(t *testing.T) {
	cmd := newRootCommand()

	addr := cmd.Flags().Lookup("addr")
	require.NotNil(t, addr)
	assert.Equal(t, ":8081", addr.DefValue)

	latency := cmd.Flags().Lookup("latency")
	require.NotNil(t, latency)
	assert.Equal(t, (50 * time.Millisecond).String(), latency.DefValue)
}

func TestRootCommand_RejectsNegativeLatency(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--latency", "-1s"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--latency")
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.Execute())
}

func TestPlatform_ServesTheClient(t *testing.T) {
	p := newPlatform(0)
	srv := httptest.NewServer(p.routes())
	t.Cleanup(srv.Close)

	c := mux.NewClient("id", "secret", mux.WithBaseURL(srv.URL))
	ctx := context.Background()

	a, err := c.CreateAsset(ctx, mux.CreateAssetInput{
		Inputs:         []mux.AssetInput{{URL: "https://cdn.example.com/v.mp4"}},
		PlaybackPolicy: []string{"signed"},
	})
	require.NoError(t, err)
	require.Len(t, a.PlaybackIDs, 1)
	assert.Equal(t, "signed", a.PlaybackIDs[0].Policy)

	got, err := c.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	require.NoError(t, c.DeleteAsset(ctx, a.ID))
	_, err = c.GetAsset(ctx, a.ID)
	assert.True(t, mux.IsNotFound(err))

	assert.EqualValues(t, 4, p.hits.Load())
}
