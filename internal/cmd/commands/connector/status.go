package connector

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/capturekit/outboxtest/internal/cmd/base"
	"github.com/capturekit/outboxtest/pkg/harness"
)

// StatusCommand prints the current state of the outbox connector and its
// tasks.
type StatusCommand struct {
	*base.Command

	flagConfig string
	flagName   string
}

func (c *StatusCommand) Synopsis() string {
	return "Show the outbox connector status"
}

func (c *StatusCommand) Help() string {
	return strings.TrimSpace(`
Usage: outbox-connect status [options]

  Fetches the status of the outbox connector from the Kafka Connect
  instance.

Options:

  -config=<path>   HCL config file to read settings from.
  -name=<name>     Connector name (default: ` + harness.ConnectorName + `).
`)
}

func (c *StatusCommand) Run(args []string) int {
	f := flag.NewFlagSet("status", flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "", "")
	f.StringVar(&c.flagName, "name", harness.ConnectorName, "")
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	src, err := c.Source(c.flagConfig)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	client := c.ConnectClient(src)

	status, err := client.ConnectorStatus(context.Background(), c.flagName)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	c.UI.Output(fmt.Sprintf("%s: %s", status.Name, status.State()))
	for _, task := range status.Tasks {
		c.UI.Output(fmt.Sprintf("  task %d: %s (%s)", task.ID, task.State, task.WorkerID))
	}
	return 0
}
