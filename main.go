package main

import (
	"fmt"
	"os"

	"github.com/devcheck/devcheck-be/internal/cli"
	"github.com/devcheck/devcheck-be/internal/config"
	"github.com/devcheck/devcheck-be/internal/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	if err := cli.NewRootCmd(cfg).Execute(); err != nil {
		log.Error().Err(err).Msg("devcheck failed")
		os.Exit(1)
	}
}
