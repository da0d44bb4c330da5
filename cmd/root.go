// Package cmd implements the pilot command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pilot",
	Short: "Pilot - agent gateway for web application control",
	Long: `Pilot is an LLM agent gateway that drives a web application UI.

It connects a local Ollama model to the browser: the agent understands
natural language requests and answers them while steering the UI through
navigation, notification, and UI action events pushed over WebSocket.

Running pilot with no arguments starts the gateway.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
