// Package connector implements the CLI commands that manage the outbox
// connector against a Kafka Connect instance.
package connector

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/capturekit/outboxtest/internal/cmd/base"
	"github.com/capturekit/outboxtest/pkg/connect"
	"github.com/capturekit/outboxtest/pkg/datasource"
	"github.com/capturekit/outboxtest/pkg/harness"
)

// RegisterCommand registers the outbox connector, optionally blocking until
// it reports running.
type RegisterCommand struct {
	*base.Command

	flagConfig  string
	flagName    string
	flagWait    bool
	flagTimeout time.Duration
}

func (c *RegisterCommand) Synopsis() string {
	return "Register the outbox connector"
}

func (c *RegisterCommand) Help() string {
	return strings.TrimSpace(`
Usage: outbox-connect register [options]

  Resolves database connection parameters from the environment (or a config
  file) and registers the outbox connector with the Kafka Connect instance.

Options:

  -config=<path>   HCL config file to read settings from.
  -name=<name>     Connector name (default: ` + harness.ConnectorName + `).
  -wait            Block until the connector reports RUNNING.
  -timeout=<dur>   Wait deadline when -wait is set (default: 30s).
`)
}

func (c *RegisterCommand) Run(args []string) int {
	f := flag.NewFlagSet("register", flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "", "")
	f.StringVar(&c.flagName, "name", harness.ConnectorName, "")
	f.BoolVar(&c.flagWait, "wait", false, "")
	f.DurationVar(&c.flagTimeout, "timeout", harness.DefaultWaitTimeout, "")
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

	if c.flagWait {
		h, err := harness.New(harness.Config{
			Source:        src,
			API:           client,
			Logger:        c.Log,
			ConnectorName: c.flagName,
			WaitTimeout:   c.flagTimeout,
		})
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		if err := h.RegisterAndWaitUntilRunning(context.Background()); err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		c.UI.Info(fmt.Sprintf("Connector %q is running", c.flagName))
		return 0
	}

	params, err := datasource.Resolve(src)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	cfg := connect.NewPostgresConnectorConfig(c.flagName, params)
	if err := cfg.Validate(); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if err := client.RegisterConnector(context.Background(), cfg); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Info(fmt.Sprintf("Registered connector %q", c.flagName))
	return 0
}
