// Package config loads and validates the server configuration.
//
// Configuration sources, in order of precedence:
//  1. Environment variables (SIMPLENFS_*)
//  2. Configuration file (YAML)
//  3. Default values
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete server configuration.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Server contains server-wide settings
	Server ServerConfig `mapstructure:"server"`

	// Export selects the exported filesystem and its type-specific options
	Export ExportConfig `mapstructure:"export"`

	// NFS configures the protocol listener
	NFS NFSConfig `mapstructure:"nfs"`

	// Metrics toggles Prometheus metrics collection
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Output is where logs are written: stdout, stderr, or a file path.
	Output string `mapstructure:"output" validate:"required"`
}

// ServerConfig contains server-wide settings.
type ServerConfig struct {
	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`
}

// ExportConfig selects which filesystem implementation backs the export.
//
// The Type field determines the implementation; only the matching
// type-specific section is used.
type ExportConfig struct {
	// Name is the export path clients mount (e.g. "/export").
	Name string `mapstructure:"name" validate:"required,startswith=/"`

	// Type specifies the filesystem implementation.
	// Valid values: local.
	Type string `mapstructure:"type" validate:"required,oneof=local"`

	// Local contains options for the local-filesystem export.
	// Only used when Type = "local".
	Local map[string]any `mapstructure:"local"`
}

// NFSConfig configures the protocol listener. Zero timeout values mean no
// timeout.
type NFSConfig struct {
	// Port is the TCP port serving both the NFS and MOUNT programs.
	Port int `mapstructure:"port" validate:"min=0,max=65535"`

	// MaxConnections limits concurrent client connections. 0 is unlimited.
	MaxConnections int `mapstructure:"max_connections" validate:"min=0"`

	// ReadTimeout bounds reading one complete RPC request.
	ReadTimeout time.Duration `mapstructure:"read_timeout" validate:"min=0"`

	// WriteTimeout bounds writing one RPC response.
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"min=0"`
}

// MetricsConfig toggles metrics collection.
type MetricsConfig struct {
	// Enabled turns on the Prometheus registry and the /metrics listener.
	Enabled bool `mapstructure:"enabled"`

	// Port is the HTTP port for the metrics endpoint.
	Port int `mapstructure:"port" validate:"min=0,max=65535"`
}

// Load reads configuration from file and environment, applies defaults and
// validates the result.
//
// An empty configPath falls back to the default location
// ($XDG_CONFIG_HOME/simple-nfs/config.yaml); a missing file is not an error,
// defaults are used instead.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment variables and the config file search.
func setupViper(v *viper.Viper, configPath string) {
	// Example: SIMPLENFS_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("SIMPLENFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			// No config file; defaults and environment apply.
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the default configuration directory.
func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "simple-nfs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "simple-nfs")
}
