package connector

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/capturekit/outboxtest/internal/cmd/base"
	"github.com/capturekit/outboxtest/pkg/connect"
	"github.com/capturekit/outboxtest/pkg/harness"
)

// WaitCommand blocks until an already-registered connector reports running.
type WaitCommand struct {
	*base.Command

	flagConfig   string
	flagName     string
	flagTimeout  time.Duration
	flagInterval time.Duration
}

func (c *WaitCommand) Synopsis() string {
	return "Wait for the outbox connector to report RUNNING"
}

func (c *WaitCommand) Help() string {
	return strings.TrimSpace(`
Usage: outbox-connect wait [options]

  Polls the connector status endpoint until the connector reports RUNNING or
  the timeout elapses.

Options:

  -config=<path>    HCL config file to read settings from.
  -name=<name>      Connector name (default: ` + harness.ConnectorName + `).
  -timeout=<dur>    Wait deadline (default: 30s).
  -interval=<dur>   Poll interval (default: 100ms).
`)
}

func (c *WaitCommand) Run(args []string) int {
	f := flag.NewFlagSet("wait", flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "", "")
	f.StringVar(&c.flagName, "name", harness.ConnectorName, "")
	f.DurationVar(&c.flagTimeout, "timeout", harness.DefaultWaitTimeout, "")
	f.DurationVar(&c.flagInterval, "interval", harness.DefaultPollInterval, "")
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

	ctx, cancel := context.WithTimeout(context.Background(), c.flagTimeout)
	defer cancel()

	start := time.Now()
	poll := func() error {
		status, err := client.ConnectorStatus(ctx, c.flagName)
		if err != nil {
			return err
		}
		if !status.IsRunning() {
			return fmt.Errorf("connector %q is in state %q", c.flagName, status.State())
		}
		return nil
	}

	policy := backoff.WithContext(backoff.NewConstantBackOff(c.flagInterval), ctx)
	if err := backoff.Retry(poll, policy); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.UI.Error(fmt.Sprintf("connector %q did not reach state %q within %s: %v",
				c.flagName, connect.RunningState, time.Since(start).Round(time.Millisecond), err))
		} else {
			c.UI.Error(err.Error())
		}
		return 1
	}

	c.UI.Info(fmt.Sprintf("Connector %q is running (waited %s)",
		c.flagName, time.Since(start).Round(time.Millisecond)))
	return 0
}
