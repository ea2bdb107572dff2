// Package base carries the state shared by all CLI commands.
package base

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/capturekit/outboxtest/internal/config"
	"github.com/capturekit/outboxtest/pkg/connect"
)

// Command is embedded by all CLI commands.
type Command struct {
	UI  cli.Ui
	Log hclog.Logger
}

// Source builds the ambient configuration chain: environment first, then the
// optional HCL config file at configPath.
func (c *Command) Source(configPath string) (config.Source, error) {
	sources := []config.Source{config.EnvSource{}}
	if configPath != "" {
		file, err := config.LoadFile(afero.NewOsFs(), configPath)
		if err != nil {
			return nil, fmt.Errorf("error loading config file %s: %w", configPath, err)
		}
		sources = append(sources, file)
	}
	return config.Chain(sources...), nil
}

// ConnectClient builds the Connect API client from the "connect.url" key,
// defaulting to the well-known local endpoint.
func (c *Command) ConnectClient(src config.Source) *connect.Client {
	baseURL, _ := src.Get(config.KeyConnectURL)
	return connect.NewClient(connect.ClientConfig{
		BaseURL: baseURL,
		Logger:  c.Log,
	})
}
