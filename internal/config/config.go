// Package config loads the service configuration from defaults, an
// optional YAML file, environment variables and command-line flags,
// in ascending precedence.
package config

import (
	"fmt"
	"log/slog"

	"github.com/tabforge-labs/tabforge/internal/logging"
)

// Default configuration values.
const (
	DefaultListenAddr     = ":8080"
	DefaultMaxUploadBytes = 32 << 20
	DefaultLogLevel       = logging.LevelInfo
	DefaultLogFormat      = logging.FormatText
)

// Config holds all service and CLI configuration options.
type Config struct {
	// ListenAddr is the HTTP service bind address.
	ListenAddr string `koanf:"listen_addr"`
	// MaxUploadBytes caps the size of one multipart request body.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`
	// Strict enables the per-format sanity checks on every decode.
	Strict bool `koanf:"strict"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr:     DefaultListenAddr,
		MaxUploadBytes: DefaultMaxUploadBytes,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be greater than 0")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON:
		return nil
	default:
		return fmt.Errorf("unknown log format %q (use text or json)", c.LogFormat)
	}
}

// Logger builds the configured structured logger.
func (c *Config) Logger() (*slog.Logger, error) {
	return logging.Setup(c.LogLevel, c.LogFormat)
}
