package connect

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capturekit/outboxtest/pkg/datasource"
)

func testParams() datasource.ConnectionParams {
	return datasource.ConnectionParams{
		Hostname:     "host.docker.internal",
		Port:         5432,
		DatabaseName: "inventory",
		Username:     "postgres",
		Password:     "postgres",
	}
}

func TestNewPostgresConnectorConfig(t *testing.T) {
	cfg := NewPostgresConnectorConfig("outbox-connector", testParams())

	assert.Equal(t, "outbox-connector", cfg.Name)
	assert.Equal(t, PostgresConnectorClass, cfg.Config.ConnectorClass)
	assert.Equal(t, "host.docker.internal", cfg.Config.DatabaseHostname)
	assert.Equal(t, 5432, cfg.Config.DatabasePort)
	assert.Equal(t, "inventory", cfg.Config.DatabaseDBName)

	// Server name and topic prefix mirror the database name.
	assert.Equal(t, "inventory", cfg.Config.DatabaseServerName)
	assert.Equal(t, "inventory", cfg.Config.TopicPrefix)

	assert.Equal(t, "outbox", cfg.Config.Transforms)
	assert.Equal(t, EventRouterTransform, cfg.Config.TransformsOutboxType)
}

func TestConnectorConfig_JSON(t *testing.T) {
	cfg := NewPostgresConnectorConfig("outbox-connector", testParams())

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "outbox-connector", raw["name"])

	props, ok := raw["config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, PostgresConnectorClass, props["connector.class"])
	assert.Equal(t, "host.docker.internal", props["database.hostname"])
	assert.Equal(t, float64(5432), props["database.port"])
	assert.Equal(t, "inventory", props["database.server.name"])
}

func TestConnectorConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := NewPostgresConnectorConfig("outbox-connector", testParams())
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing name", func(t *testing.T) {
		cfg := NewPostgresConnectorConfig("", testParams())
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connector name is required")
	})

	t.Run("missing hostname", func(t *testing.T) {
		params := testParams()
		params.Hostname = ""
		cfg := NewPostgresConnectorConfig("outbox-connector", params)
		assert.Error(t, cfg.Validate())
	})

	t.Run("port out of range", func(t *testing.T) {
		params := testParams()
		params.Port = 70000
		cfg := NewPostgresConnectorConfig("outbox-connector", params)
		assert.Error(t, cfg.Validate())
	})

	t.Run("port absent is allowed", func(t *testing.T) {
		params := testParams()
		params.Port = -1
		cfg := NewPostgresConnectorConfig("outbox-connector", params)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("aggregates name and settings errors", func(t *testing.T) {
		params := testParams()
		params.Username = ""
		cfg := NewPostgresConnectorConfig("", params)
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connector name is required")
		assert.Contains(t, err.Error(), "database.user")
	})
}

func TestSettingsFromMap(t *testing.T) {
	settings, err := SettingsFromMap(map[string]string{
		"connector.class":      PostgresConnectorClass,
		"tasks.max":            "1",
		"database.hostname":    "host.docker.internal",
		"database.port":        "5432",
		"database.user":        "postgres",
		"database.dbname":      "inventory",
		"database.server.name": "inventory",
	})
	require.NoError(t, err)

	assert.Equal(t, PostgresConnectorClass, settings.ConnectorClass)
	assert.Equal(t, "host.docker.internal", settings.DatabaseHostname)
	assert.Equal(t, 5432, settings.DatabasePort)
	assert.Equal(t, "inventory", settings.DatabaseServerName)
}
