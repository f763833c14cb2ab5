package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	return &buf
}

func TestCtxAddsIDs(t *testing.T) {
	buf := capture(t)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	Ctx(ctx).Info().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "corr-1", line["correlation_id"])
	assert.Equal(t, "hello", line["message"])
}

func TestCtxWithoutIDs(t *testing.T) {
	buf := capture(t)

	Ctx(context.Background()).Info().Msg("plain")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, "request_id")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("nonsense"))
	assert.Equal(t, zerolog.Disabled, parseLevel("disabled"))
}

func TestWithComponent(t *testing.T) {
	buf := capture(t)

	l := WithComponent("mux")
	l.Info().Msg("x")

	assert.Contains(t, buf.String(), `"component":"mux"`)
}

func TestNewCorrelationIDIsShort(t *testing.T) {
	assert.Len(t, NewCorrelationID(), 8)
	assert.NotEqual(t, NewRequestID(), NewRequestID())
}
