package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestChatSuccess(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, ServerConfig{Agent: &stubAgent{response: "The dashboard is this way."}})

	rec := postJSON(t, s, "/api/chat", `{"message":"take me to the dashboard"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "The dashboard is this way.", resp.Response)
	assert.False(t, resp.Streaming)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestChatRejectsBadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"invalid json", `{not json`},
		{"missing message", `{}`},
		{"empty message", `{"message":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestServer(t, ServerConfig{})
			rec := postJSON(t, s, "/api/chat", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "Message is required", resp.Error)
		})
	}
}

func TestChatAgentFailure(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, ServerConfig{Agent: &stubAgent{err: errors.New("model unreachable")}})

	rec := postJSON(t, s, "/api/chat", `{"message":"hello"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Internal server error", resp.Error)
	assert.Equal(t, safeErrorMessage, resp.Message)
	// Internal failure detail must not leak to the client.
	assert.NotContains(t, rec.Body.String(), "model unreachable")
}

// parseFrames decodes every "data:" line of an SSE body.
func parseFrames(t *testing.T, body string) []sseFrame {
	t.Helper()

	var frames []sseFrame
	for _, line := range strings.Split(body, "\n") {
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		var frame sseFrame
		require.NoError(t, json.Unmarshal([]byte(data), &frame))
		frames = append(frames, frame)
	}
	return frames
}

func TestChatStreamFrameOrder(t *testing.T) {
	t.Parallel()

	tokens := []string{"The ", "dashboard ", "is ", "this ", "way."}
	s := newTestServer(t, ServerConfig{Agent: &stubAgent{response: "The dashboard is this way.", tokens: tokens}})

	rec := postJSON(t, s, "/api/chat/stream", `{"message":"take me to the dashboard"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	frames := parseFrames(t, rec.Body.String())
	require.Len(t, frames, len(tokens)+2)

	assert.Equal(t, "start", frames[0].Type)
	var rebuilt strings.Builder
	for i, token := range tokens {
		frame := frames[i+1]
		assert.Equal(t, "chunk", frame.Type)
		assert.Equal(t, token, frame.Chunk)
		rebuilt.WriteString(frame.Chunk)
	}
	assert.Equal(t, "end", frames[len(frames)-1].Type)

	// The concatenated chunks reconstruct the full answer.
	assert.Equal(t, "The dashboard is this way.", rebuilt.String())

	for _, frame := range frames {
		assert.NotEmpty(t, frame.Timestamp)
	}
}

func TestChatStreamRejectsEmptyMessage(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, ServerConfig{})

	rec := postJSON(t, s, "/api/chat/stream", `{"message":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEqual(t, "text/event-stream", rec.Header().Get("Content-Type"))
}

func TestChatStreamErrorFrame(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, ServerConfig{Agent: &stubAgent{err: errors.New("model unreachable")}})

	rec := postJSON(t, s, "/api/chat/stream", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	frames := parseFrames(t, rec.Body.String())
	require.Len(t, frames, 2)
	assert.Equal(t, "start", frames[0].Type)
	assert.Equal(t, "error", frames[1].Type)
	assert.Equal(t, safeErrorMessage, frames[1].Message)
}
