package version

import (
	"github.com/capturekit/outboxtest/internal/cmd/base"
	"github.com/capturekit/outboxtest/internal/version"
)

// Command prints the CLI version.
type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return "Usage: outbox-connect version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
