// Package events defines the side-effect events pushed to connected UI
// clients. Every event is a JSON envelope carrying an "action" discriminator
// and an ISO-8601 timestamp.
package events

import "time"

// Action discriminator values carried on the wire.
const (
	ActionAgentResponse = "agentResponse"
	ActionStreamStart   = "streamStart"
	ActionStreamChunk   = "streamChunk"
	ActionStreamEnd     = "streamEnd"
	ActionNavigate      = "navigate"
	ActionNotification  = "notification"
	ActionUIAction      = "uiAction"
	ActionError         = "error"
)

// Severity levels accepted by notification events.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Event is implemented by all wire events.
type Event interface {
	// EventAction returns the "action" discriminator of the event.
	EventAction() string
}

// envelope carries the fields common to every event. Embedding it flattens
// action and timestamp into the enclosing JSON object.
type envelope struct {
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

// EventAction returns the action discriminator.
func (e envelope) EventAction() string { return e.Action }

// newEnvelope stamps an envelope with the current UTC time.
// RFC3339Nano keeps timestamps distinct even for back-to-back events.
func newEnvelope(action string) envelope {
	return envelope{
		Action:    action,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// AgentResponse is the complete, non-streamed answer for one turn.
type AgentResponse struct {
	envelope
	Message string `json:"message"`
}

// NewAgentResponse creates an agentResponse event.
func NewAgentResponse(message string) AgentResponse {
	return AgentResponse{envelope: newEnvelope(ActionAgentResponse), Message: message}
}

// StreamStart opens a streamed turn identified by MessageID.
type StreamStart struct {
	envelope
	MessageID string `json:"messageId"`
}

// NewStreamStart creates a streamStart event.
func NewStreamStart(messageID string) StreamStart {
	return StreamStart{envelope: newEnvelope(ActionStreamStart), MessageID: messageID}
}

// StreamChunk carries one incremental token of a streamed turn.
type StreamChunk struct {
	envelope
	MessageID string `json:"messageId"`
	Chunk     string `json:"chunk"`
}

// NewStreamChunk creates a streamChunk event.
func NewStreamChunk(messageID, chunk string) StreamChunk {
	return StreamChunk{envelope: newEnvelope(ActionStreamChunk), MessageID: messageID, Chunk: chunk}
}

// StreamEnd closes a streamed turn. FullMessage is the exact concatenation
// of every chunk sent under the same MessageID.
type StreamEnd struct {
	envelope
	MessageID   string `json:"messageId"`
	FullMessage string `json:"fullMessage"`
}

// NewStreamEnd creates a streamEnd event.
func NewStreamEnd(messageID, fullMessage string) StreamEnd {
	return StreamEnd{envelope: newEnvelope(ActionStreamEnd), MessageID: messageID, FullMessage: fullMessage}
}

// Navigate instructs the UI to move to a different page.
type Navigate struct {
	envelope
	Path string `json:"path"`
	Page string `json:"page"`
}

// NewNavigate creates a navigate event.
func NewNavigate(path, page string) Navigate {
	return Navigate{envelope: newEnvelope(ActionNavigate), Path: path, Page: page}
}

// Notification instructs the UI to display a transient message.
type Notification struct {
	envelope
	Message  string `json:"message"`
	Type     string `json:"type"`
	Duration int    `json:"duration"`
}

// NewNotification creates a notification event.
func NewNotification(message, severity string, durationMs int) Notification {
	return Notification{
		envelope: newEnvelope(ActionNotification),
		Message:  message,
		Type:     severity,
		Duration: durationMs,
	}
}

// UIAction instructs the UI to perform a named control action.
type UIAction struct {
	envelope
	UIAction string `json:"uiAction"`
	Payload  any    `json:"payload,omitempty"`
}

// NewUIAction creates a uiAction event.
func NewUIAction(actionName string, payload any) UIAction {
	return UIAction{envelope: newEnvelope(ActionUIAction), UIAction: actionName, Payload: payload}
}

// Error reports a turn failure to the client. The message is always
// user-safe; internal detail stays in the server log.
type Error struct {
	envelope
	Message string `json:"message"`
}

// NewError creates an error event.
func NewError(message string) Error {
	return Error{envelope: newEnvelope(ActionError), Message: message}
}
