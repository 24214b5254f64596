package main

import (
	"context"
	"errors"
	"os"

	log "github.com/sirupsen/logrus"

	"imgpack/internal/cli"
)

// The entry point for the imgpack tool.
//
// Executes the root command. An interrupted run exits with code 130; any other
// error exits with a non-zero code.
func main() {
	if err := cli.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Error("interrupted")
			os.Exit(130)
		}
		log.Error(err.Error())
		os.Exit(1)
	}
}
