// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.pilot/config.yaml or ./config.yaml)
//  3. Default values
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidPort indicates the network port is out of range.
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidOllamaHost indicates the Ollama host is not a valid URL.
	ErrInvalidOllamaHost = errors.New("invalid Ollama host")

	// ErrInvalidModelName indicates the model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")
)

// Defaults matching a local Ollama setup.
const (
	DefaultPort       = 3001
	DefaultOllamaHost = "http://localhost:11434"
	DefaultModelName  = "mistral"
	DefaultCORSOrigin = "*"
	DefaultMaxTurns   = 5
)

// Config stores application configuration.
type Config struct {
	// Model endpoint
	OllamaHost string `mapstructure:"ollama_host" json:"ollama_host"`
	ModelName  string `mapstructure:"model_name" json:"model_name"`
	MaxTurns   int    `mapstructure:"max_turns" json:"max_turns"`

	// Behavior flags
	Verbose   bool `mapstructure:"verbose" json:"verbose"`
	Streaming bool `mapstructure:"streaming" json:"streaming"`

	// Server
	Port       int    `mapstructure:"port" json:"port"`
	CORSOrigin string `mapstructure:"cors_origin" json:"cors_origin"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".pilot"))
	}
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("ollama_host", DefaultOllamaHost)
	v.SetDefault("model_name", DefaultModelName)
	v.SetDefault("max_turns", DefaultMaxTurns)
	v.SetDefault("verbose", false)
	v.SetDefault("streaming", true)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("cors_origin", DefaultCORSOrigin)
}

// bindEnvVariables binds environment variables explicitly, keeping the
// names the deployment surface already uses.
func bindEnvVariables(v *viper.Viper) {
	_ = v.BindEnv("ollama_host", "OLLAMA_BASE_URL")
	_ = v.BindEnv("model_name", "OLLAMA_MODEL")
	_ = v.BindEnv("verbose", "VERBOSE")
	_ = v.BindEnv("streaming", "STREAMING")
	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("cors_origin", "CORS_ORIGIN")
}

// Validate checks configuration invariants. Fail-fast: called by Load.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d (must be 1-65535)", ErrInvalidPort, c.Port)
	}
	if c.ModelName == "" {
		return fmt.Errorf("%w: model name must not be empty", ErrInvalidModelName)
	}
	u, err := url.Parse(c.OllamaHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidOllamaHost, c.OllamaHost)
	}
	return nil
}

// Addr returns the listen address derived from the configured port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
