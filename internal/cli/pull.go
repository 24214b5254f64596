package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imgpack/internal"
	"imgpack/internal/config"
	"imgpack/internal/docker"
	"imgpack/internal/image"
	"imgpack/internal/pack"
	"imgpack/internal/prompt"
	"imgpack/internal/schedule"
)

// Represents the 'imgpack pull' command.
type PullCmd struct {
	Image   string `short:"i" help:"Image to package (format: name[:tag]). Prompts when omitted." placeholder:"NAME[:TAG]"`
	Arch    string `short:"a" help:"Target architecture (amd64, arm64, arm/v7). Prompts when omitted." placeholder:"ARCH"`
	Mirror  string `short:"m" help:"Registry mirror to pull through, or \"none\" to force a direct pull. Prompts when mirrors are configured and the flag is omitted." placeholder:"URL"`
	Staging string `short:"s" help:"Override the configured staging directory." placeholder:"DIR"`
}

// Executes the pull command.
//
// Flag values win; anything missing is asked for interactively. On the very
// first run a configuration template is written and the command exits so the
// user can fill it in.
func (c *PullCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(configPath())
	if errors.Is(err, config.ErrTemplateWritten) {
		fmt.Printf("Created %s\n", configPath())
		fmt.Printf("Edit it, then run %s again.\n", internal.Name)
		return nil
	}
	if err != nil {
		return err
	}

	p := prompt.New(os.Stdin, os.Stdout)

	ref, err := c.resolveRef(p)
	if err != nil {
		return err
	}
	arch, err := c.resolveArch(p)
	if err != nil {
		return err
	}
	mirror, err := c.resolveMirror(p, cfg.Mirrors())
	if err != nil {
		return err
	}

	staging := cfg.StagingDir
	if c.Staging != "" {
		staging = c.Staging
	}

	result, err := pack.Run(ctx, docker.New(nil), schedule.New(nil), pack.Options{
		Ref:     ref,
		Arch:    arch,
		Mirror:  mirror,
		Staging: staging,
		Quiet:   RootCmd.Quiet,
	})
	if err != nil {
		return err
	}

	printInstructions(result, ref)
	return nil
}

// Resolves the image reference from the flag or a prompt.
func (c *PullCmd) resolveRef(p *prompt.Prompter) (image.Ref, error) {
	name := c.Image
	if name == "" {
		var err error
		if name, err = p.ImageName(); err != nil {
			return image.Ref{}, err
		}
	}
	return image.ParseRef(name)
}

// Resolves the target architecture from the flag or a prompt.
func (c *PullCmd) resolveArch(p *prompt.Prompter) (string, error) {
	if c.Arch != "" {
		if !image.Supported(c.Arch) {
			return "", fmt.Errorf("unsupported architecture %q (choose from %s)",
				c.Arch, strings.Join(image.Architectures, ", "))
		}
		return c.Arch, nil
	}
	return p.Architecture(image.Architectures)
}

// Resolves the mirror selection from the flag, the configuration, or a
// prompt. The literal "none" forces a direct pull.
func (c *PullCmd) resolveMirror(p *prompt.Prompter, mirrors []string) (string, error) {
	switch {
	case strings.EqualFold(c.Mirror, "none"):
		return "", nil
	case c.Mirror != "":
		return c.Mirror, nil
	default:
		return p.Mirror(mirrors)
	}
}

// Prints the commands needed to load the archive on the target machine.
func printInstructions(result *pack.Result, ref image.Ref) {
	fmt.Println()
	fmt.Println("Transfer the archive to the target machine, then:")
	fmt.Printf("  1. unzip %s\n", filepath.Base(result.Archive))
	fmt.Printf("  2. docker load -i %s\n", result.TarName)
	fmt.Printf("  3. docker images | grep %s\n", ref.Name)

	if result.Deferred != "" {
		fmt.Println()
		fmt.Printf("The local copy will be removed later (at job %s).\n", result.Deferred)
	}
}
