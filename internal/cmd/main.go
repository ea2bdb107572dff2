package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/capturekit/outboxtest/internal/version"
)

// logLevelEnvVar selects the CLI log level. Unset means info.
const logLevelEnvVar = "OUTBOX_CONNECT_LOG_LEVEL"

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	cliName := filepath.Base(args[0])

	log := hclog.New(&hclog.LoggerOptions{
		Name:  cliName,
		Level: hclog.LevelFromString(os.Getenv(logLevelEnvVar)),
	})

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	initCommands(log, ui)

	c := &cli.CLI{
		Name:     cliName,
		Args:     versionArgs(args[1:]),
		Version:  version.Version,
		Commands: Commands,
	}

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cliName, err)
		return 1
	}

	return exitCode
}

// versionArgs rewrites the version flag spellings to the version subcommand.
func versionArgs(args []string) []string {
	if len(args) == 1 {
		switch args[0] {
		case "-v", "-version", "--version":
			return []string{"version"}
		}
	}
	return args
}
