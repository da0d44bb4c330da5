package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventEnvelopes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		event  Event
		action string
	}{
		{"agent response", NewAgentResponse("hi"), ActionAgentResponse},
		{"stream start", NewStreamStart("id-1"), ActionStreamStart},
		{"stream chunk", NewStreamChunk("id-1", "tok"), ActionStreamChunk},
		{"stream end", NewStreamEnd("id-1", "tok"), ActionStreamEnd},
		{"navigate", NewNavigate("/dashboard", "dashboard"), ActionNavigate},
		{"notification", NewNotification("saved", SeveritySuccess, 5000), ActionNotification},
		{"ui action", NewUIAction("openModal", nil), ActionUIAction},
		{"error", NewError("boom"), ActionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.action, tt.event.EventAction())

			data, err := json.Marshal(tt.event)
			require.NoError(t, err)

			var decoded map[string]any
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.action, decoded["action"])

			ts, ok := decoded["timestamp"].(string)
			require.True(t, ok, "timestamp must be a string")
			_, err = time.Parse(time.RFC3339Nano, ts)
			assert.NoError(t, err, "timestamp must be ISO-8601")
		})
	}
}

func TestNotificationWireShape(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewNotification("done", SeverityInfo, 3000))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "done", decoded["message"])
	assert.Equal(t, "info", decoded["type"])
	assert.EqualValues(t, 3000, decoded["duration"])
}

func TestUIActionOmitsEmptyPayload(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewUIAction("refreshData", nil))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "payload")

	data, err = json.Marshal(NewUIAction("updateTheme", map[string]any{"theme": "dark"}))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"payload"`)
}

func TestTimestampsAreDistinct(t *testing.T) {
	t.Parallel()

	a := NewNotification("same", SeverityInfo, 5000)
	b := NewNotification("same", SeverityInfo, 5000)

	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.Type, b.Type)
	assert.Equal(t, a.Duration, b.Duration)
	assert.NotEqual(t, a.Timestamp, b.Timestamp)
}
