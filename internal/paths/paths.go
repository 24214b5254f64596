package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "imgpack"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory holding the configuration file.
//
//	Linux:   ~/.config/imgpack
//	macOS:   ~/Library/Application Support/imgpack
func Config() string {
	return filepath.Join(xdg.ConfigHome, toolName)
}

// Default path to the configuration file.
//
//	Linux:   ~/.config/imgpack/config.yaml
//	macOS:   ~/Library/Application Support/imgpack/config.yaml
func ConfigFile() string {
	return filepath.Join(Config(), "config.yaml")
}
