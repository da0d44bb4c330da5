package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koopa0/pilot/internal/log"
)

func TestConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing genkit", Config{Logger: log.NewNop()}, "genkit instance is required"},
		{"missing logger", Config{}, "genkit instance is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUninitializedAgent(t *testing.T) {
	t.Parallel()

	var a *Agent
	_, err := a.Execute(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotInitialized)

	zero := &Agent{}
	_, err = zero.ExecuteStream(context.Background(), "hello", nil)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

// The system prompt is the contract for how the agent behaves; verify the
// load-bearing instructions stay present.
func TestSystemPromptContract(t *testing.T) {
	t.Parallel()

	assert.Contains(t, systemPrompt, "NEVER mention tool names")
	assert.Contains(t, systemPrompt, "use the navigation tool")
	assert.Contains(t, systemPrompt, "use the notification tool")
	assert.Contains(t, systemPrompt, "use the UI action tool")

	for _, route := range []string{"/dashboard", "/users", "/clients", "/analytics", "/calendar"} {
		assert.True(t, strings.Contains(systemPrompt, route), "route %s missing from prompt", route)
	}
}
