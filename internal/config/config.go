// Package config defines service configuration and its layered loading.
package config

import (
	"github.com/ashrotd/singcoach/internal/llm"
)

// Config contains process configuration.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":3001".
	Addr string `koanf:"addr"`

	// DB is a SQLite file path or a postgres:// DSN. Empty selects the
	// default data path.
	DB string `koanf:"db"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	LLM llm.Config `koanf:"llm"`
}

// New returns a Config holding the built-in defaults.
func New() *Config {
	return &Config{
		Addr:      ":3001",
		LogLevel:  "info",
		LogFormat: "text",
		LLM:       llm.DefaultConfig(),
	}
}
