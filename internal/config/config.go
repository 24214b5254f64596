package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/traefik/paerser/env"
	"gopkg.in/yaml.v3"

	"imgpack/internal/paths"
)

// Prefix for environment variable overrides (e.g. IMGPACK_STAGINGDIR).
const envPrefix = "IMGPACK_"

//go:embed config.yaml.example
var configTemplate []byte

// Durable settings of the tool.
type Config struct {
	// Directory that receives finished archives.
	StagingDir string `yaml:"staging_dir"`

	// Comma-separated registry mirror endpoints, in menu order.
	RegistryMirrors string `yaml:"registry_mirrors"`
}

// Loads the configuration file at path.
//
// When the file does not exist, a commented template is written there and
// ErrTemplateWritten is returned so the caller can tell the user to edit it
// before the first real run.
//
// After the file is read, values from a .env file in the working directory
// and from IMGPACK_-prefixed environment variables are layered on top, and a
// leading ~ in the staging directory is expanded.
func Load(path string) (Config, error) {
	var cfg Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeTemplate(path); err != nil {
			return cfg, err
		}
		return cfg, fmt.Errorf("%w: %s", ErrTemplateWritten, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
	}

	// Overrides from .env are loaded into the process environment first so a
	// single decode pass sees both sources.
	_ = godotenv.Load()
	if err := env.Decode(os.Environ(), envPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: environment overrides: %w", ErrConfig, err)
	}

	if strings.TrimSpace(cfg.StagingDir) == "" {
		return cfg, fmt.Errorf("%w: staging_dir must be set in %s", ErrConfig, path)
	}

	expanded, err := homedir.Expand(cfg.StagingDir)
	if err != nil {
		return cfg, fmt.Errorf("%w: staging_dir: %w", ErrConfig, err)
	}
	cfg.StagingDir = expanded

	return cfg, nil
}

// Returns the cleaned mirror list: entries split on commas, trimmed, with
// empty items dropped. Order is preserved.
func (c Config) Mirrors() []string {
	var mirrors []string
	for _, m := range strings.Split(c.RegistryMirrors, ",") {
		if m = strings.TrimSpace(m); m != "" {
			mirrors = append(mirrors, m)
		}
	}
	return mirrors
}

// Writes the embedded template to path, creating parent directories as
// needed.
func writeTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := os.WriteFile(path, configTemplate, paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return nil
}
