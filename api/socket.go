package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/koopa0/pilot/internal/delivery"
	"github.com/koopa0/pilot/internal/events"
	"github.com/koopa0/pilot/internal/log"
	"github.com/koopa0/pilot/internal/stream"
)

const (
	wsMaxPayloadBytes = 1 << 20
	wsSendBuffer      = 256
	wsWriteWait       = 10 * time.Second
	wsPongWait        = 60 * time.Second
	wsPingInterval    = 30 * time.Second
)

// welcomeMessage greets every client on connect.
const welcomeMessage = "👋 Hello! I'm your intelligent assistant. I can help you navigate around " +
	"the app, show you notifications, and assist with various tasks. Just tell me what you'd " +
	"like to do in natural language - for example, \"take me to the dashboard\" or " +
	"\"show me a success message\". How can I help you today?"

// SocketHandler serves the live bidirectional channel.
//
// On connect the client's sink is installed in the delivery registry and a
// welcome agentResponse is sent. Each inbound userMessage runs one turn with
// the client's sink bound to the turn context, so tool side effects and
// streamed tokens are pushed back over the same connection. Turn failures
// produce an error event; they never close the channel.
type SocketHandler struct {
	agent     Agent
	registry  *delivery.Registry
	streaming bool
	logger    log.Logger
	upgrader  websocket.Upgrader
}

// NewSocketHandler creates the live channel handler.
func NewSocketHandler(a Agent, registry *delivery.Registry, streaming bool, corsOrigin string, logger log.Logger) *SocketHandler {
	return &SocketHandler{
		agent:     a,
		registry:  registry,
		streaming: streaming,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if corsOrigin == "" || corsOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == corsOrigin
			},
		},
	}
}

// RegisterRoutes registers the WebSocket route on the given mux.
func (h *SocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws", h.serve)
}

// userMessage is the inbound envelope of the live channel.
type userMessage struct {
	Action  string `json:"action,omitempty"`
	Message string `json:"message"`
}

// wsClient is one connected UI session. It implements delivery.Sink: events
// are queued on the send channel and drained by the write pump, so emitting
// never blocks the reasoning loop for the duration of a network write.
type wsClient struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	logger log.Logger
}

// errSendBufferFull reports a client too slow to drain its event queue.
var errSendBufferFull = errors.New("send buffer full")

// Send queues one event for delivery. Queueing preserves call order; a
// client that cannot drain its buffer loses the event rather than stalling
// the producer.
func (c *wsClient) Send(event events.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		return errSendBufferFull
	}
}

func (h *SocketHandler) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &wsClient{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, wsSendBuffer),
		ctx:    ctx,
		cancel: cancel,
		logger: h.logger,
	}

	h.registry.Set(client.id, client)
	h.logger.Info("client connected", "connId", client.id)

	go client.writeLoop()

	if err := client.Send(events.NewAgentResponse(welcomeMessage)); err != nil {
		h.logger.Warn("sending welcome message", "connId", client.id, "error", err)
	}

	h.readLoop(client)

	h.registry.Remove(client.id)
	cancel()
	close(client.send)
	_ = conn.Close()
	h.logger.Info("client disconnected", "connId", client.id)
}

// readLoop consumes inbound envelopes until the connection drops. Turns are
// processed sequentially per connection, so a session's events never
// interleave between its own turns.
func (h *SocketHandler) readLoop(client *wsClient) {
	conn := client.conn
	conn.SetReadLimit(wsMaxPayloadBytes)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg userMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(client, "Invalid message format")
			continue
		}
		if msg.Action != "" && msg.Action != "userMessage" {
			h.sendError(client, "Unknown action")
			continue
		}
		if msg.Message == "" {
			h.sendError(client, "Message is required")
			continue
		}

		h.handleTurn(client, msg.Message)
	}
}

// handleTurn executes one turn with the client's sink bound to the context.
func (h *SocketHandler) handleTurn(client *wsClient, input string) {
	ctx := delivery.ContextWithSink(client.ctx, client)
	h.logger.Debug("user message received", "connId", client.id, "length", len(input))

	if h.streaming {
		relay := stream.NewRelay(client)
		if err := relay.Start(); err != nil {
			h.logger.Warn("opening stream", "connId", client.id, "error", err)
			h.sendError(client, safeErrorMessage)
			return
		}

		// Final return value is discarded: the client already received the
		// full answer via chunks. Partial chunks are never retracted on
		// failure; the client simply also receives the error signal.
		if _, err := h.agent.ExecuteStream(ctx, input, relay.Token); err != nil {
			h.logger.Error("streaming turn failed", "connId", client.id, "error", err)
			h.sendError(client, safeErrorMessage)
			return
		}
		if err := relay.End(); err != nil {
			h.logger.Warn("closing stream", "connId", client.id, "error", err)
		}
		return
	}

	response, err := h.agent.Execute(ctx, input)
	if err != nil {
		h.logger.Error("turn failed", "connId", client.id, "error", err)
		h.sendError(client, safeErrorMessage)
		return
	}
	if err := client.Send(events.NewAgentResponse(response)); err != nil {
		h.logger.Warn("delivering agent response", "connId", client.id, "error", err)
	}
}

// sendError pushes a user-safe error event; the channel stays open.
func (h *SocketHandler) sendError(client *wsClient, message string) {
	if err := client.Send(events.NewError(message)); err != nil {
		h.logger.Warn("delivering error event", "connId", client.id, "error", err)
	}
}

// writeLoop drains the send queue onto the wire and keeps the connection
// alive with periodic pings. It exits when the queue closes or a write fails.
func (c *wsClient) writeLoop() {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("websocket write failed", "connId", c.id, "error", err)
				c.cancel()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}
