// Package stream correlates incremental model output to a single turn.
//
// A Relay owns one turn: it generates a fresh message id, opens the stream
// with streamStart, forwards every token as a streamChunk in generation
// order, and closes with a streamEnd whose fullMessage is the exact
// concatenation of the chunks sent. Relays are single-use and not safe for
// concurrent use; one relay serves one turn on one channel.
package stream

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/koopa0/pilot/internal/delivery"
	"github.com/koopa0/pilot/internal/events"
)

// Sentinel errors for relay misuse.
var (
	// ErrNotStarted indicates a chunk or end was emitted before Start.
	ErrNotStarted = errors.New("stream not started")

	// ErrAlreadyStarted indicates Start was called twice on one relay.
	ErrAlreadyStarted = errors.New("stream already started")
)

// Relay packages one turn's token stream into correlated wire events.
type Relay struct {
	sink    delivery.Sink
	id      string
	started bool
	ended   bool
	full    strings.Builder
}

// NewRelay creates a relay for one turn with a fresh message id.
func NewRelay(sink delivery.Sink) *Relay {
	return &Relay{sink: sink, id: uuid.NewString()}
}

// ID returns the turn's message id.
func (r *Relay) ID() string { return r.id }

// Start opens the stream with a streamStart event.
func (r *Relay) Start() error {
	if r.started {
		return ErrAlreadyStarted
	}
	r.started = true
	return r.sink.Send(events.NewStreamStart(r.id))
}

// Token forwards one generated token as a streamChunk event. Tokens are
// delivered in call order with no buffering or batching.
func (r *Relay) Token(_ context.Context, token string) error {
	if !r.started || r.ended {
		return ErrNotStarted
	}
	if token == "" {
		return nil
	}
	r.full.WriteString(token)
	return r.sink.Send(events.NewStreamChunk(r.id, token))
}

// End closes the stream with a streamEnd event carrying the exact
// concatenation of every chunk sent under this relay's id.
func (r *Relay) End() error {
	if !r.started {
		return ErrNotStarted
	}
	r.ended = true
	return r.sink.Send(events.NewStreamEnd(r.id, r.full.String()))
}

// FullMessage returns the concatenation of all tokens forwarded so far.
func (r *Relay) FullMessage() string { return r.full.String() }
