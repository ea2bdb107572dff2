package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/capturekit/outboxtest/internal/cmd/base"
	"github.com/capturekit/outboxtest/internal/cmd/commands/connector"
	versioncmd "github.com/capturekit/outboxtest/internal/cmd/commands/version"
)

// Commands is the CLI command registry, populated by initCommands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	baseCommand := &base.Command{
		UI:  ui,
		Log: log,
	}

	Commands = map[string]cli.CommandFactory{
		"register": func() (cli.Command, error) {
			return &connector.RegisterCommand{Command: baseCommand}, nil
		},
		"status": func() (cli.Command, error) {
			return &connector.StatusCommand{Command: baseCommand}, nil
		},
		"wait": func() (cli.Command, error) {
			return &connector.WaitCommand{Command: baseCommand}, nil
		},
		"delete": func() (cli.Command, error) {
			return &connector.DeleteCommand{Command: baseCommand}, nil
		},
		"version": func() (cli.Command, error) {
			return &versioncmd.Command{Command: baseCommand}, nil
		},
	}
}
