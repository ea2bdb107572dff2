// Package connect is a minimal client for the Kafka Connect management API,
// covering the operations the harness needs: registering the outbox
// connector, reading its status, and tearing it down between runs.
package connect

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"

	"github.com/capturekit/outboxtest/pkg/datasource"
)

const (
	// PostgresConnectorClass is the Debezium source connector for PostgreSQL.
	PostgresConnectorClass = "io.debezium.connector.postgresql.PostgresConnector"

	// EventRouterTransform routes rows of the outbox table to per-aggregate
	// topics.
	EventRouterTransform = "io.debezium.transforms.outbox.EventRouter"

	// OutboxTableIncludeList is the fully qualified outbox table captured by
	// the connector.
	OutboxTableIncludeList = "public.outbox_event"
)

// ConnectorConfig is the registration payload for one named connector.
// Constructed fresh for each registration request; never reused across
// tests.
type ConnectorConfig struct {
	Name   string            `json:"name"`
	Config ConnectorSettings `json:"config"`
}

// ConnectorSettings holds the connector properties. Field tags carry the
// dotted property names the Connect API uses on the wire.
type ConnectorSettings struct {
	ConnectorClass     string `json:"connector.class" mapstructure:"connector.class"`
	TasksMax           string `json:"tasks.max" mapstructure:"tasks.max"`
	PluginName         string `json:"plugin.name,omitempty" mapstructure:"plugin.name"`
	DatabaseHostname   string `json:"database.hostname" mapstructure:"database.hostname"`
	DatabasePort       int    `json:"database.port" mapstructure:"database.port"`
	DatabaseUser       string `json:"database.user" mapstructure:"database.user"`
	DatabasePassword   string `json:"database.password" mapstructure:"database.password"`
	DatabaseDBName     string `json:"database.dbname" mapstructure:"database.dbname"`
	DatabaseServerName string `json:"database.server.name" mapstructure:"database.server.name"`
	TopicPrefix        string `json:"topic.prefix,omitempty" mapstructure:"topic.prefix"`
	TableIncludeList   string `json:"table.include.list,omitempty" mapstructure:"table.include.list"`

	Transforms                string `json:"transforms,omitempty" mapstructure:"transforms"`
	TransformsOutboxType      string `json:"transforms.outbox.type,omitempty" mapstructure:"transforms.outbox.type"`
	TransformsOutboxPlacement string `json:"transforms.outbox.table.fields.additional.placement,omitempty" mapstructure:"transforms.outbox.table.fields.additional.placement"`
}

// NewPostgresConnectorConfig builds the registration payload for the outbox
// connector from resolved connection parameters. The server name and topic
// prefix mirror the database name.
func NewPostgresConnectorConfig(name string, params datasource.ConnectionParams) ConnectorConfig {
	return ConnectorConfig{
		Name: name,
		Config: ConnectorSettings{
			ConnectorClass:     PostgresConnectorClass,
			TasksMax:           "1",
			PluginName:         "pgoutput",
			DatabaseHostname:   params.Hostname,
			DatabasePort:       params.Port,
			DatabaseUser:       params.Username,
			DatabasePassword:   params.Password,
			DatabaseDBName:     params.DatabaseName,
			DatabaseServerName: params.DatabaseName,
			TopicPrefix:        params.DatabaseName,
			TableIncludeList:   OutboxTableIncludeList,

			Transforms:                "outbox",
			TransformsOutboxType:      EventRouterTransform,
			TransformsOutboxPlacement: "type:header:eventType",
		},
	}
}

// Validate checks the registration payload before it is sent to the remote
// API, aggregating all problems into one error.
func (c ConnectorConfig) Validate() error {
	var result *multierror.Error
	if c.Name == "" {
		result = multierror.Append(result, errors.New("connector name is required"))
	}
	if err := c.Config.Validate(); err != nil {
		result = multierror.Append(result, fmt.Errorf("connector config: %w", err))
	}
	return result.ErrorOrNil()
}

// Validate checks the connector properties.
func (s ConnectorSettings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ConnectorClass, validation.Required),
		validation.Field(&s.DatabaseHostname, validation.Required),
		// Port -1 means the URL carried none; the capture service applies its
		// own default in that case.
		validation.Field(&s.DatabasePort,
			validation.When(s.DatabasePort != -1, validation.Min(1), validation.Max(65535))),
		validation.Field(&s.DatabaseUser, validation.Required),
		validation.Field(&s.DatabasePassword, validation.Required),
		validation.Field(&s.DatabaseDBName, validation.Required),
		validation.Field(&s.DatabaseServerName, validation.Required),
	)
}

// SettingsFromMap decodes the flat property map the Connect API reports for
// a registered connector into typed settings. Numeric properties arrive as
// strings on the wire.
func SettingsFromMap(m map[string]string) (ConnectorSettings, error) {
	var settings ConnectorSettings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &settings,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return ConnectorSettings{}, err
	}
	if err := decoder.Decode(m); err != nil {
		return ConnectorSettings{}, fmt.Errorf("failed to decode connector settings: %w", err)
	}
	return settings, nil
}
