package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	t.Parallel()

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["serve"], "serve command should be registered")
	assert.True(t, names["version"], "version command should be registered")
}

func TestVersionCommandOutput(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Version)
	assert.Equal(t, "version", versionCmd.Name())
}
