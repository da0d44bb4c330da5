package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koopa0/pilot/internal/config"
	"github.com/koopa0/pilot/internal/log"
)

func TestSetupValidation(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		OllamaHost: config.DefaultOllamaHost,
		ModelName:  config.DefaultModelName,
		Port:       config.DefaultPort,
	}

	tests := []struct {
		name   string
		cfg    *config.Config
		logger log.Logger
	}{
		{"nil config", nil, log.NewNop()},
		{"nil logger", cfg, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Setup(context.Background(), tt.cfg, tt.logger)
			assert.Error(t, err)
		})
	}
}
