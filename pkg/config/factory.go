package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/jameshightower/simple-nfs/pkg/vfs"
	"github.com/jameshightower/simple-nfs/pkg/vfs/localfs"
)

// CreateFileSystem builds the exported filesystem named by the Export
// section. The Type field selects the implementation and the matching
// options map is decoded into its implementation-specific configuration.
func CreateFileSystem(cfg *ExportConfig) (vfs.FileSystem, error) {
	switch cfg.Type {
	case "local":
		return createLocalFileSystem(cfg.Local)
	default:
		return nil, fmt.Errorf("unknown export type: %q", cfg.Type)
	}
}

// createLocalFileSystem builds a local-filesystem export.
func createLocalFileSystem(options map[string]any) (vfs.FileSystem, error) {
	type LocalExportConfig struct {
		Path string `mapstructure:"path"`
	}

	var exportCfg LocalExportConfig
	if err := mapstructure.Decode(options, &exportCfg); err != nil {
		return nil, fmt.Errorf("invalid local export options: %w", err)
	}
	if exportCfg.Path == "" {
		return nil, fmt.Errorf("local export: path must be set")
	}

	return localfs.New(exportCfg.Path)
}
