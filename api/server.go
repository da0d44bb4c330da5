// Package api provides the HTTP and WebSocket transport gateway for pilot.
//
// Endpoints:
//
//	GET  /ws              → live bidirectional channel (WebSocket)
//	POST /api/chat        → synchronous chat (JSON request/response)
//	POST /api/chat/stream → streaming chat (Server-Sent Events)
//	GET  /health          → liveness and readiness report
//	GET  /api/info        → static capability report
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: HTTP middleware (recovery, logging, CORS)
//   - response.go: JSON response helpers
//   - health.go: /health and /api/info
//   - chat.go: REST chat endpoints
//   - socket.go: WebSocket live channel
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/koopa0/pilot/internal/agent"
	"github.com/koopa0/pilot/internal/delivery"
	"github.com/koopa0/pilot/internal/log"
)

// Server timeouts. No WriteTimeout is set: SSE streams and the WebSocket
// channel hold their response open indefinitely.
const (
	ShutdownTimeout   = 10 * time.Second
	ReadHeaderTimeout = 10 * time.Second
	ReadTimeout       = 30 * time.Second
	IdleTimeout       = 2 * time.Minute
)

// Agent is the gateway-facing surface of the reasoning loop.
// *agent.Agent satisfies it; tests substitute a deterministic stub.
type Agent interface {
	Execute(ctx context.Context, input string) (string, error)
	ExecuteStream(ctx context.Context, input string, onToken agent.TokenCallback) (string, error)
}

// ServerConfig contains the dependencies of the transport gateway.
type ServerConfig struct {
	Logger   log.Logger
	Agent    Agent
	Registry *delivery.Registry

	Streaming  bool   // stream live-channel turns token by token
	CORSOrigin string // allowed cross-origin source ("*" allows all)
	Version    string // reported by /api/info
}

// Server is the transport gateway. It accepts turns over the live channel
// and the REST surface and relays agent output back through the matching
// surface.
type Server struct {
	mux    *http.ServeMux
	cfg    ServerConfig
	logger log.Logger

	health *HealthHandler
	chat   *ChatHandler
	socket *SocketHandler
}

// NewServer creates the gateway with all routes registered.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.Agent == nil {
		return nil, errors.New("agent is required")
	}
	if cfg.Registry == nil {
		return nil, errors.New("delivery registry is required")
	}

	mux := http.NewServeMux()
	s := &Server{
		mux:    mux,
		cfg:    cfg,
		logger: cfg.Logger,
		health: NewHealthHandler(cfg.Streaming, cfg.Version, cfg.Logger),
		chat:   NewChatHandler(cfg.Agent, cfg.Logger),
		socket: NewSocketHandler(cfg.Agent, cfg.Registry, cfg.Streaming, cfg.CORSOrigin, cfg.Logger),
	}

	s.health.RegisterRoutes(mux)
	s.chat.RegisterRoutes(mux)
	s.socket.RegisterRoutes(mux)

	return s, nil
}

// Handler returns the HTTP handler with middleware applied.
// Middleware order: recovery → logging → CORS → handler.
func (s *Server) Handler() http.Handler {
	return chain(s.mux,
		recoveryMiddleware(s.logger),
		loggingMiddleware(s.logger),
		corsMiddleware(s.cfg.CORSOrigin),
	)
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gateway listening",
			"addr", addr,
			"websocket", "/ws",
			"chat", "/api/chat",
			"stream", "/api/chat/stream",
			"streaming", s.cfg.Streaming,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down gateway")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server: %w", err)
	}
}
