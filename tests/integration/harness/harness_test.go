//go:build integration
// +build integration

package harness

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capturekit/outboxtest/internal/config"
	"github.com/capturekit/outboxtest/pkg/connect"
	outboxharness "github.com/capturekit/outboxtest/pkg/harness"
	"github.com/capturekit/outboxtest/pkg/kafka"
	"github.com/capturekit/outboxtest/pkg/outbox"
)

// TestOutboxConnectorEndToEnd drives the whole stack: registers the Debezium
// connector against a live Kafka Connect worker, waits for it to report
// RUNNING, seeds an outbox row and reads the routed event off Redpanda.
func TestOutboxConnectorEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := NewStackFixture(t, ctx)

	client := connect.NewClient(connect.ClientConfig{
		BaseURL: f.ConnectURL(),
		Logger:  f.Logger(),
	})

	h, err := outboxharness.New(outboxharness.Config{
		Source: f.Source(),
		API:    client,
		Logger: f.Logger(),
	})
	require.NoError(t, err)

	// Create the captured table before registration so the connector's
	// initial snapshot finds it.
	db, err := outbox.Connect(f.HostParams(ctx), f.Logger())
	require.NoError(t, err)
	require.NoError(t, outbox.EnsureTable(db))

	t.Run("RegisterAndWaitUntilRunning", func(t *testing.T) {
		err := h.RegisterAndWaitUntilRunning(ctx)
		require.NoError(t, err)

		status, err := client.ConnectorStatus(ctx, outboxharness.ConnectorName)
		require.NoError(t, err)
		assert.True(t, status.IsRunning(), "connector state: %s", status.State())
		assert.Equal(t, outboxharness.ConnectorName, status.Name)
	})

	t.Run("DuplicateRegistrationFails", func(t *testing.T) {
		err := h.RegisterAndWaitUntilRunning(ctx)
		require.Error(t, err)

		var regErr *outboxharness.RegistrationError
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, outboxharness.ConnectorName, regErr.Name)

		var apiErr *connect.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	})

	t.Run("RoutesOutboxEvents", func(t *testing.T) {
		// The event router derives the topic from the aggregate type.
		topic := "outbox.event.order"
		f.CreateTopic(ctx, topic)

		evt := outbox.NewEvent("order", uuid.New().String(), "OrderCreated", `{"total": 42}`)
		require.NoError(t, outbox.Seed(db, evt))

		consumeCtx, cancel := context.WithTimeout(ctx, 90*time.Second)
		defer cancel()

		records, err := kafka.WaitForRecords(consumeCtx, kafka.Brokers(f.Source()), topic, 1, f.Logger())
		require.NoError(t, err)
		require.Len(t, records, 1)

		assert.Equal(t, evt.AggregateID, string(records[0].Key))
		assert.JSONEq(t, evt.Payload, string(records[0].Value))
	})

	t.Run("Cleanup", func(t *testing.T) {
		require.NoError(t, h.Cleanup(ctx))

		_, err := client.ConnectorStatus(ctx, outboxharness.ConnectorName)
		require.Error(t, err)
		assert.True(t, connect.IsNotFound(err))

		// Deleting again tolerates the connector being gone.
		require.NoError(t, h.Cleanup(ctx))
	})
}

// stubSource carries just enough configuration to build a connector config
// without any containers running.
func stubSource() config.Source {
	return config.StaticSource{
		config.KeyJDBCURL:  "jdbc:postgresql://postgres:5432/inventory",
		config.KeyUsername: databaseUser,
		config.KeyPassword: databasePassword,
	}
}

// TestRegistrationFailsFast verifies that a broken worker endpoint surfaces a
// registration error immediately instead of burning the whole wait window.
func TestRegistrationFailsFast(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client := connect.NewClient(connect.ClientConfig{
		BaseURL: "http://127.0.0.1:1",
	})

	h, err := outboxharness.New(outboxharness.Config{
		Source: stubSource(),
		API:    client,
	})
	require.NoError(t, err)

	start := time.Now()
	err = h.RegisterAndWaitUntilRunning(context.Background())
	elapsed := time.Since(start)

	var regErr *outboxharness.RegistrationError
	require.ErrorAs(t, err, &regErr)

	var timeoutErr *outboxharness.TimeoutError
	assert.False(t, errors.As(err, &timeoutErr))
	assert.Less(t, elapsed, outboxharness.DefaultWaitTimeout)
}
