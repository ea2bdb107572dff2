// Package harness registers a change-data-capture connector against a
// running Kafka Connect instance before each integration test and blocks
// until the connector reports itself operational.
//
// One harness invocation performs a single synchronous attempt: resolve
// connection parameters from ambient configuration, submit the registration
// request, then poll the status endpoint on a fixed interval until the
// connector is running or the deadline elapses. Every failure is fatal to
// the calling test; transient transport failures while polling are the only
// condition treated as "keep trying", and only until the deadline.
package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/capturekit/outboxtest/internal/config"
	"github.com/capturekit/outboxtest/pkg/connect"
	"github.com/capturekit/outboxtest/pkg/datasource"
)

const (
	// ConnectorName identifies the single connector instance used by the
	// harness.
	ConnectorName = "outbox-connector"

	// DefaultPollInterval is the delay between status polls.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultWaitTimeout is the wall-clock deadline for the connector to
	// reach the running state.
	DefaultWaitTimeout = 30 * time.Second
)

const runningState = connect.RunningState

// Config holds configuration for the harness.
type Config struct {
	// Source provides the ambient configuration lookup (required).
	Source config.Source

	// API is the connector-management client (required).
	API connect.API

	// Logger (default: hclog.NewNullLogger()).
	Logger hclog.Logger

	// ConnectorName overrides the harness-wide connector name.
	ConnectorName string

	// PollInterval between status polls (default: DefaultPollInterval).
	PollInterval time.Duration

	// WaitTimeout for the connector to report running (default:
	// DefaultWaitTimeout).
	WaitTimeout time.Duration
}

// Harness provisions the outbox connector for one test at a time.
type Harness struct {
	source        config.Source
	api           connect.API
	logger        hclog.Logger
	connectorName string
	pollInterval  time.Duration
	waitTimeout   time.Duration
}

// New creates a harness, filling in defaults for unset fields.
func New(cfg Config) (*Harness, error) {
	if cfg.Source == nil {
		return nil, errors.New("configuration source is required")
	}
	if cfg.API == nil {
		return nil, errors.New("connector API client is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	if cfg.ConnectorName == "" {
		cfg.ConnectorName = ConnectorName
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.WaitTimeout == 0 {
		cfg.WaitTimeout = DefaultWaitTimeout
	}

	return &Harness{
		source:        cfg.Source,
		api:           cfg.API,
		logger:        cfg.Logger.Named("outbox-harness"),
		connectorName: cfg.ConnectorName,
		pollInterval:  cfg.PollInterval,
		waitTimeout:   cfg.WaitTimeout,
	}, nil
}

// RegisterAndWaitUntilRunning resolves connection parameters, registers the
// outbox connector, and blocks until it reports running.
//
// Failure modes, all fatal to the caller:
//   - *datasource.ConfigurationError: missing or malformed ambient values;
//     no network call is attempted.
//   - *RegistrationError: the remote API rejected the registration request.
//   - *TimeoutError: the connector never reported running within the wait
//     deadline.
func (h *Harness) RegisterAndWaitUntilRunning(ctx context.Context) error {
	params, err := datasource.Resolve(h.source)
	if err != nil {
		return err
	}

	cfg := connect.NewPostgresConnectorConfig(h.connectorName, params)
	if err := cfg.Validate(); err != nil {
		return &RegistrationError{Name: h.connectorName, Cause: err}
	}

	h.logger.Info("registering outbox connector",
		"name", h.connectorName,
		"database_hostname", params.Hostname,
		"database_port", params.Port,
		"database_name", params.DatabaseName,
	)

	if err := h.api.RegisterConnector(ctx, cfg); err != nil {
		return &RegistrationError{Name: h.connectorName, Cause: err}
	}

	return h.waitUntilRunning(ctx)
}

// waitUntilRunning polls the status endpoint on a fixed interval until the
// connector reports running or the deadline elapses. Transport failures and
// non-running states both keep the loop alive.
func (h *Harness) waitUntilRunning(ctx context.Context) error {
	start := time.Now()

	waitCtx, cancel := context.WithTimeout(ctx, h.waitTimeout)
	defer cancel()

	// lastObserved keeps the most recent poll outcome so a timeout can report
	// what the connector was doing when the deadline hit.
	var lastObserved error
	poll := func() error {
		status, err := h.api.ConnectorStatus(waitCtx, h.connectorName)
		if err != nil {
			h.logger.Debug("connector status not available yet", "error", err)
			lastObserved = err
			return err
		}
		if !status.IsRunning() {
			h.logger.Debug("connector not running yet", "state", status.State())
			lastObserved = fmt.Errorf("connector %q is in state %q", h.connectorName, status.State())
			return lastObserved
		}
		return nil
	}

	policy := backoff.WithContext(backoff.NewConstantBackOff(h.pollInterval), waitCtx)
	if err := backoff.Retry(poll, policy); err != nil {
		if errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			cause := lastObserved
			if cause == nil {
				cause = err
			}
			return &TimeoutError{
				Name:    h.connectorName,
				Elapsed: time.Since(start),
				Cause:   cause,
			}
		}
		return err
	}

	h.logger.Info("outbox connector is running",
		"name", h.connectorName,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// Cleanup removes the connector so the harness can be re-run without the
// remote API reporting a duplicate name. A connector that is already gone is
// not an error.
func (h *Harness) Cleanup(ctx context.Context) error {
	if err := h.api.DeleteConnector(ctx, h.connectorName); err != nil && !connect.IsNotFound(err) {
		return fmt.Errorf("failed to delete connector %q: %w", h.connectorName, err)
	}
	return nil
}
