package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, ServerConfig{Streaming: true})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "ready", body["agent"])
	assert.Equal(t, true, body["streaming"])

	ts, ok := body["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339Nano, ts)
	assert.NoError(t, err)
}

func TestHealthReportsStreamingDisabled(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, ServerConfig{Streaming: false})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["streaming"])
}

func TestInfo(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, ServerConfig{Streaming: true, Version: "1.2.3"})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/info", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, "/ws", body["websocket"])
	assert.ElementsMatch(t,
		[]any{"navigation", "notifications", "ui-actions"},
		body["capabilities"])
	assert.ElementsMatch(t,
		[]any{"navigate", "notification", "uiAction"},
		body["tools"])

	features, ok := body["features"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, features["streaming"])
	assert.Equal(t, true, features["realTimeTools"])
}
