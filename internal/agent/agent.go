// Package agent wraps a Genkit model endpoint and the UI-control tools into
// the conversational reasoning loop that drives the web application.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"

	"github.com/koopa0/pilot/internal/log"
)

// Sentinel errors for agent operations.
var (
	// ErrNotInitialized indicates an execution operation was invoked before
	// the agent was constructed via New.
	ErrNotInitialized = errors.New("agent not initialized")

	// ErrExecutionFailed indicates the reasoning loop failed.
	ErrExecutionFailed = errors.New("execution failed")
)

// fallbackResponse is returned when the model produces an empty final answer.
const fallbackResponse = "I apologize, but I couldn't generate a response. Please try rephrasing your question."

// systemPrompt fixes the agent's behavior: act on UI intent through tools,
// never expose the tool mechanics to the user.
const systemPrompt = `You are a helpful and intelligent assistant for a web application. You can help users navigate, show notifications, and control UI elements through natural conversation.

IMPORTANT INSTRUCTIONS:
- NEVER mention tool names, function calls, or technical implementation details to users
- NEVER ask users to type code or function calls
- Understand natural language requests and use your tools automatically
- Respond conversationally and naturally
- When users ask to go somewhere, use the navigation tool immediately
- When users want to see messages or alerts, use the notification tool
- When users want to interact with UI elements, use the UI action tool

Available routes in the application:
- Home (/)
- Dashboard (/dashboard)
- Users (/users)
- Clients (/clients)
- Analytics (/analytics)
- Calendar (/calendar)

CONVERSATION STYLE:
- Be friendly, helpful, and conversational
- Acknowledge requests naturally: "Sure! Let me take you to the dashboard"
- Use tools silently in the background - users don't need to know about them
- If a user asks what you can do, explain capabilities in natural language without mentioning tools

Remember: your job is to understand what users want in natural language and help them accomplish it seamlessly.`

// TokenCallback is called for each incremental text token of the final
// answer as the model generates it. Return an error to abort the stream.
type TokenCallback func(ctx context.Context, token string) error

// Config contains all required parameters for the agent.
type Config struct {
	Genkit *genkit.Genkit
	Logger log.Logger
	Tools  []ai.Tool // Pre-registered tools from tools.Register

	ModelName string // Provider-qualified model name (e.g., "ollama/mistral")
	MaxTurns  int    // Maximum agentic loop turns (default 5)

	// RateLimiter throttles model calls (nil = default 10 req/s, burst 30).
	RateLimiter *rate.Limiter
}

// validate checks if all required parameters are present.
func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if len(cfg.Tools) == 0 {
		return errors.New("at least one tool is required")
	}
	return nil
}

// Agent is the conversational agent driving the web UI.
//
// Agent is stateless across turns and safe for concurrent use: all
// configuration is captured immutably at construction time.
type Agent struct {
	g         *genkit.Genkit
	logger    log.Logger
	modelName string
	maxTurns  int
	limiter   *rate.Limiter

	toolRefs  []ai.ToolRef
	toolNames string // comma-separated, cached for logging
}

// New creates an initialized Agent. Execution operations on an agent not
// built through New fail with ErrNotInitialized.
func New(cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 5
	}

	limiter := cfg.RateLimiter
	if limiter == nil {
		limiter = rate.NewLimiter(10, 30)
	}

	toolRefs := make([]ai.ToolRef, len(cfg.Tools))
	names := make([]string, len(cfg.Tools))
	for i, t := range cfg.Tools {
		toolRefs[i] = t
		names[i] = t.Name()
	}

	a := &Agent{
		g:         cfg.Genkit,
		logger:    cfg.Logger,
		modelName: cfg.ModelName,
		maxTurns:  maxTurns,
		limiter:   limiter,
		toolRefs:  toolRefs,
		toolNames: strings.Join(names, ", "),
	}

	a.logger.Info("agent initialized",
		"model", a.modelName,
		"tools", a.toolNames,
		"maxTurns", a.maxTurns,
	)
	return a, nil
}

// Execute runs the reasoning loop to completion and returns the final text.
// The model may invoke any number of tools along the way; each tool emits
// its side-effect event through the delivery sink carried in ctx.
func (a *Agent) Execute(ctx context.Context, input string) (string, error) {
	return a.ExecuteStream(ctx, input, nil)
}

// ExecuteStream is Execute with incremental output: onToken is invoked
// synchronously, in generation order, for every text token the model emits.
// A nil onToken disables streaming. The final text is returned either way
// and equals the answer Execute would produce for the same input.
func (a *Agent) ExecuteStream(ctx context.Context, input string, onToken TokenCallback) (string, error) {
	if a == nil || a.g == nil {
		return "", ErrNotInitialized
	}

	streaming := onToken != nil
	a.logger.Debug("executing turn",
		"queryLength", len(input),
		"streaming", streaming,
	)

	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limit wait: %w", ErrExecutionFailed, err)
	}

	opts := []ai.GenerateOption{
		ai.WithSystem(systemPrompt),
		ai.WithPrompt(input),
		ai.WithTools(a.toolRefs...),
		ai.WithMaxTurns(a.maxTurns),
	}
	if a.modelName != "" {
		opts = append(opts, ai.WithModelName(a.modelName))
	}
	if streaming {
		opts = append(opts, ai.WithStreaming(func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
			text := chunk.Text()
			if text == "" {
				return nil
			}
			return onToken(ctx, text)
		}))
	}

	resp, err := genkit.Generate(ctx, a.g, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" && len(resp.ToolRequests()) == 0 {
		a.logger.Warn("model returned empty response with no tool requests")
		text = fallbackResponse
	}

	a.logger.Debug("turn completed",
		"responseLength", len(text),
		"toolRequests", len(resp.ToolRequests()),
	)
	return text, nil
}
