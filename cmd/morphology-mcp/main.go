package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/morphology-mcp/internal/config"
	"github.com/ironsheep/morphology-mcp/internal/logging"
	"github.com/ironsheep/morphology-mcp/internal/morphology"
	"github.com/ironsheep/morphology-mcp/internal/server"
)

// Set with -ldflags "-X main.Version=..." at release time.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = `morphology-mcp - MCP server for binary morphology

Usage: morphology-mcp [--version | --help]

Environment:
  %s   path of a TOML file with defaults and limits
  %s   log level override (debug, info, warn, error)

Requests are read from stdin and answered on stdout; logs go to stderr.
Register the binary as a stdio server in your MCP client.
`

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("morphology-mcp %s (commit %s, built %s)\n", Version, GitCommit, BuildTime)
			return
		case "--help", "-h", "help":
			fmt.Printf(usage, config.EnvConfigPath, config.EnvLogLevel)
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "morphology-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	// stdout carries the protocol.
	logger := logging.NewConsole(os.Stderr, level)
	morphology.SetLogger(logging.Component(logger, "morphology"))

	server.Version = Version
	logger.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting")

	if err := server.New(cfg, logging.Component(logger, "server")).Run(); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		return err
	}
	return nil
}
