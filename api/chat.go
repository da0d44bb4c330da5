package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/koopa0/pilot/internal/log"
)

// ChatHandler serves the stateless request/response chat surface.
//
// Endpoints:
//   - POST /api/chat        - synchronous chat (JSON request/response)
//   - POST /api/chat/stream - streaming chat (Server-Sent Events)
type ChatHandler struct {
	agent  Agent
	logger log.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(a Agent, logger log.Logger) *ChatHandler {
	return &ChatHandler{agent: a, logger: logger}
}

// RegisterRoutes registers chat routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", h.handleChat)
	mux.HandleFunc("POST /api/chat/stream", h.handleStream)
}

// chatRequest is the request body of both chat endpoints.
type chatRequest struct {
	Message string `json:"message"`
}

// chatResponse is the response body of the synchronous endpoint.
type chatResponse struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
	Streaming bool   `json:"streaming"`
}

// parseChatRequest decodes and validates the request body. A missing or
// empty message is rejected before the agent is ever invoked.
func parseChatRequest(r *http.Request) (chatRequest, error) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return chatRequest{}, fmt.Errorf("decoding request body: %w", err)
	}
	if req.Message == "" {
		return chatRequest{}, fmt.Errorf("message is empty")
	}
	return req, nil
}

// handleChat runs one non-streaming turn and returns the final answer.
func (h *ChatHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	req, err := parseChatRequest(r)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Message is required", "")
		return
	}

	response, err := h.agent.Execute(r.Context(), req.Message)
	if err != nil {
		h.logger.Error("chat turn failed", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error", safeErrorMessage)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, chatResponse{
		Response:  response,
		Timestamp: isoNow(),
		Streaming: false,
	})
}

// sseFrame is one framing event of the SSE chat stream.
type sseFrame struct {
	Type      string `json:"type"`
	Chunk     string `json:"chunk,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

// handleStream runs one streaming turn over a chunked SSE response.
//
// Frame order: one "start", a "chunk" per token, one "end". Failure before
// the stream opens returns a plain client error; once streaming has begun,
// failure is communicated as a terminal "error" frame, never an abrupt close.
func (h *ChatHandler) handleStream(w http.ResponseWriter, r *http.Request) {
	req, err := parseChatRequest(r)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Message is required", "")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("streaming not supported by response writer")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	h.writeFrame(w, flusher, sseFrame{Type: "start"})

	ctx := r.Context()
	_, err = h.agent.ExecuteStream(ctx, req.Message, func(_ context.Context, token string) error {
		// Bail out promptly when the client goes away.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		h.writeFrame(w, flusher, sseFrame{Type: "chunk", Chunk: token})
		return nil
	})
	if err != nil {
		h.logger.Error("streaming turn failed", "error", err)
		h.writeFrame(w, flusher, sseFrame{Type: "error", Message: safeErrorMessage})
		return
	}

	h.writeFrame(w, flusher, sseFrame{Type: "end"})
}

// writeFrame writes one SSE data frame and flushes it immediately.
func (h *ChatHandler) writeFrame(w http.ResponseWriter, flusher http.Flusher, frame sseFrame) {
	frame.Timestamp = isoNow()
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("marshaling SSE frame", "error", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
