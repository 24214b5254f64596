package cli

import (
	"context"
	"errors"
	"fmt"

	"imgpack/internal"
	"imgpack/internal/config"
)

// Represents the 'imgpack config' command.
type ConfigCmd struct{}

// Executes the config command.
//
// Shows the effective configuration after environment overrides, writing the
// template first when no file exists yet.
func (c *ConfigCmd) Run(ctx context.Context) error {
	path := configPath()

	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrTemplateWritten) {
		fmt.Printf("Created %s\n", path)
		fmt.Printf("Edit it, then run %s again.\n", internal.Name)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("configuration:     %s\n", path)
	fmt.Printf("staging directory: %s\n", cfg.StagingDir)

	mirrors := cfg.Mirrors()
	if len(mirrors) == 0 {
		fmt.Println("registry mirrors:  (none)")
		return nil
	}
	fmt.Println("registry mirrors:")
	for _, m := range mirrors {
		fmt.Printf("  %s\n", m)
	}
	return nil
}
