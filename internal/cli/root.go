package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"

	"imgpack/internal"
	"imgpack/internal/paths"
)

// Represents the root command for the imgpack tool.
var RootCmd struct {
	Quiet      bool       `short:"q" help:"Suppress informational output."`
	Debug      bool       `short:"d" help:"Enable debug output."`
	ConfigFile string     `name:"config" short:"c" help:"Override the default configuration file path." placeholder:"PATH"`
	Pull       PullCmd    `cmd:"" default:"withargs" help:"Pull an image and package it for offline transfer."`
	Config     ConfigCmd  `cmd:"" help:"Show the effective configuration."`
	Version    VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Packages container images for offline use.\n\nPulls an image for a chosen architecture, wraps it in a zip archive, and stages it for transfer to machines without registry access."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	log.Debugf("build %s", internal.VersionString())
	log.WithFields(log.Fields{
		"pid":  os.Getpid(),
		"args": os.Args,
	}).Debug("imgpack is running")

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: true,
	})

	switch {
	case RootCmd.Debug:
		log.SetLevel(log.DebugLevel)
	case RootCmd.Quiet:
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// Returns the effective configuration file path.
func configPath() string {
	if RootCmd.ConfigFile != "" {
		return RootCmd.ConfigFile
	}
	return paths.ConfigFile()
}
