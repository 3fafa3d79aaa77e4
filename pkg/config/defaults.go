package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ApplyDefaults fills in zero values with sensible defaults. Explicitly
// configured values are never changed.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyExportDefaults(&cfg.Export)
	applyNFSDefaults(&cfg.NFS)
	applyMetricsDefaults(&cfg.Metrics)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

func applyExportDefaults(cfg *ExportConfig) {
	if cfg.Name == "" {
		cfg.Name = "/export"
	}
	if cfg.Type == "" {
		cfg.Type = "local"
	}
	if cfg.Local == nil {
		cfg.Local = map[string]any{"path": "/data"}
	}
}

func applyNFSDefaults(cfg *NFSConfig) {
	if cfg.Port == 0 {
		cfg.Port = 2049
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 5 * time.Minute
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// GetDefaultConfig returns a configuration with every default applied.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// WriteDefault writes a fully defaulted configuration file to path, for use
// as a starting point. Fails if the file already exists.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	data, err := yaml.Marshal(defaultConfigDocument())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

// defaultConfigDocument builds the YAML document for WriteDefault. It uses
// plain maps so key names match the mapstructure tags, not the Go field
// names.
func defaultConfigDocument() map[string]any {
	cfg := GetDefaultConfig()
	return map[string]any{
		"logging": map[string]any{
			"level":  cfg.Logging.Level,
			"output": cfg.Logging.Output,
		},
		"server": map[string]any{
			"shutdown_timeout": cfg.Server.ShutdownTimeout.String(),
		},
		"export": map[string]any{
			"name":  cfg.Export.Name,
			"type":  cfg.Export.Type,
			"local": cfg.Export.Local,
		},
		"nfs": map[string]any{
			"port":            cfg.NFS.Port,
			"max_connections": cfg.NFS.MaxConnections,
			"read_timeout":    cfg.NFS.ReadTimeout.String(),
			"write_timeout":   cfg.NFS.WriteTimeout.String(),
		},
		"metrics": map[string]any{
			"enabled": cfg.Metrics.Enabled,
			"port":    cfg.Metrics.Port,
		},
	}
}
