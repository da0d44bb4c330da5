// Package delivery binds tool executions to the live channel of the session
// that initiated the turn.
//
// A Sink is installed per connection in the Registry and threaded through the
// reasoning loop via context.Context, so tools can reach "the current UI
// session" without being parameterized per call. Turns without a live channel
// (plain HTTP requests, disconnected clients) simply carry no sink and every
// emit degrades to a logged no-op.
package delivery

import (
	"context"
	"sync"

	"github.com/koopa0/pilot/internal/events"
	"github.com/koopa0/pilot/internal/log"
)

// Sink receives side-effect events for one connected client.
type Sink interface {
	// Send delivers the event to the client. Implementations must preserve
	// call order for events sent from a single turn.
	Send(event events.Event) error
}

// sinkKey uses an empty struct for a zero-allocation context key.
type sinkKey struct{}

// ContextWithSink stores the turn's delivery sink in the context.
func ContextWithSink(ctx context.Context, sink Sink) context.Context {
	return context.WithValue(ctx, sinkKey{}, sink)
}

// SinkFromContext retrieves the turn's delivery sink from the context.
// Returns nil if not set, allowing graceful degradation.
func SinkFromContext(ctx context.Context) Sink {
	sink, _ := ctx.Value(sinkKey{}).(Sink)
	return sink
}

// Emit sends the event through the sink bound to the turn's context.
// With no sink attached the event is dropped and logged; the caller never
// observes channel absence as an error.
func Emit(ctx context.Context, logger log.Logger, event events.Event) {
	sink := SinkFromContext(ctx)
	if sink == nil {
		logger.Debug("no live channel attached, event dropped",
			"action", event.EventAction())
		return
	}
	if err := sink.Send(event); err != nil {
		logger.Warn("delivering event to live channel",
			"action", event.EventAction(), "error", err)
	}
}

// Registry maps connection ids to their live-channel sinks.
// Safe for concurrent use; connections register on accept and
// deregister on disconnect.
type Registry struct {
	mu    sync.RWMutex
	sinks map[string]Sink
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sinks: make(map[string]Sink)}
}

// Set installs the sink for a connection id, replacing any previous sink.
func (r *Registry) Set(connID string, sink Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks[connID] = sink
}

// Get returns the sink for a connection id, or nil if not registered.
func (r *Registry) Get(connID string) Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sinks[connID]
}

// Remove deregisters a connection id. Removing an unknown id is a no-op.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sinks, connID)
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sinks)
}
