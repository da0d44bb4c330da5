// Package app provides application initialization and dependency wiring.
//
// App is the container that assembles the model endpoint, the UI-control
// tools, the reasoning agent, and the delivery registry from configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/ollama"

	"github.com/koopa0/pilot/internal/agent"
	"github.com/koopa0/pilot/internal/config"
	"github.com/koopa0/pilot/internal/delivery"
	"github.com/koopa0/pilot/internal/log"
	"github.com/koopa0/pilot/internal/tools"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit   *genkit.Genkit
	Agent    *agent.Agent
	Registry *delivery.Registry
}

// Setup creates and initializes the application.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: delivery.NewRegistry(),
	}

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	uiTools, err := provideTools(g, logger)
	if err != nil {
		return nil, err
	}

	ag, err := agent.New(agent.Config{
		Genkit:    g,
		Logger:    logger,
		Tools:     uiTools,
		ModelName: "ollama/" + cfg.ModelName,
		MaxTurns:  cfg.MaxTurns,
	})
	if err != nil {
		return nil, fmt.Errorf("creating agent: %w", err)
	}
	a.Agent = ag

	return a, nil
}

// provideGenkit initializes Genkit with the Ollama plugin.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
	g := genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))
	if g == nil {
		return nil, errors.New("initializing genkit with ollama provider")
	}

	// Ollama requires explicit model registration (no auto-discovery)
	ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
		Name: cfg.ModelName,
		Type: "chat",
	}, nil)

	logger.Info("initialized Genkit with ollama provider",
		"model", cfg.ModelName, "host", cfg.OllamaHost)
	return g, nil
}

// provideTools creates the UI toolset and registers it with Genkit.
func provideTools(g *genkit.Genkit, logger log.Logger) ([]ai.Tool, error) {
	ui, err := tools.NewUI(logger)
	if err != nil {
		return nil, fmt.Errorf("creating UI tools: %w", err)
	}

	uiTools, err := tools.Register(g, ui)
	if err != nil {
		return nil, fmt.Errorf("registering UI tools: %w", err)
	}

	logger.Info("tools registered at construction", "count", len(uiTools))
	return uiTools, nil
}
