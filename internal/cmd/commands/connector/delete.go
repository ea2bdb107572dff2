package connector

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/capturekit/outboxtest/internal/cmd/base"
	"github.com/capturekit/outboxtest/pkg/connect"
	"github.com/capturekit/outboxtest/pkg/harness"
)

// DeleteCommand removes the outbox connector so a harness run can start
// from a clean slate.
type DeleteCommand struct {
	*base.Command

	flagConfig string
	flagName   string
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete the outbox connector"
}

func (c *DeleteCommand) Help() string {
	return strings.TrimSpace(`
Usage: outbox-connect delete [options]

  Deletes the outbox connector from the Kafka Connect instance. A connector
  that does not exist is not an error.

Options:

  -config=<path>   HCL config file to read settings from.
  -name=<name>     Connector name (default: ` + harness.ConnectorName + `).
`)
}

func (c *DeleteCommand) Run(args []string) int {
	f := flag.NewFlagSet("delete", flag.ContinueOnError)
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

	if err := client.DeleteConnector(context.Background(), c.flagName); err != nil {
		if connect.IsNotFound(err) {
			c.UI.Warn(fmt.Sprintf("Connector %q does not exist", c.flagName))
			return 0
		}
		c.UI.Error(err.Error())
		return 1
	}

	c.UI.Info(fmt.Sprintf("Deleted connector %q", c.flagName))
	return 0
}
