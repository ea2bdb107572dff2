//go:build integration
// +build integration

package harness

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"

	"github.com/capturekit/outboxtest/internal/config"
	"github.com/capturekit/outboxtest/pkg/datasource"
)

const (
	postgresImage = "postgres:16-alpine"
	redpandaImage = "docker.redpanda.com/redpandadata/redpanda:v24.1.7"
	connectImage  = "quay.io/debezium/connect:2.7"

	// Aliases on the shared Docker network. The connector config hands these
	// hostnames to Kafka Connect, which resolves them inside the network.
	postgresAlias = "postgres"
	redpandaAlias = "redpanda"

	databaseName     = "inventory"
	databaseUser     = "postgres"
	databasePassword = "postgres"

	// Internal listener the Connect worker uses to reach Redpanda.
	internalBroker = "redpanda:29092"
)

// StackFixture runs the full capture stack in containers: PostgreSQL with
// logical decoding enabled, Redpanda, and a Debezium Kafka Connect worker
// wired to both over a shared network.
type StackFixture struct {
	t      *testing.T
	logger hclog.Logger

	network  *testcontainers.DockerNetwork
	postgres *postgres.PostgresContainer
	redpanda *redpanda.Container
	connect  testcontainers.Container

	connectURL  string
	seedBrokers string
}

// NewStackFixture starts the container stack. Containers are terminated via
// t.Cleanup in reverse start order.
func NewStackFixture(t *testing.T, ctx context.Context) *StackFixture {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	f := &StackFixture{
		t: t,
		logger: hclog.New(&hclog.LoggerOptions{
			Name:  "stack-fixture",
			Level: hclog.Debug,
		}),
	}

	nw, err := network.New(ctx)
	require.NoError(t, err, "failed to create docker network")
	f.network = nw
	t.Cleanup(func() {
		_ = nw.Remove(context.Background())
	})

	f.startPostgres(ctx)
	f.startRedpanda(ctx)
	f.startConnect(ctx)

	return f
}

func (f *StackFixture) startPostgres(ctx context.Context) {
	f.t.Helper()

	pg, err := postgres.Run(ctx,
		postgresImage,
		postgres.WithDatabase(databaseName),
		postgres.WithUsername(databaseUser),
		postgres.WithPassword(databasePassword),
		network.WithNetwork([]string{postgresAlias}, f.network),
		// Debezium's pgoutput plugin needs logical decoding.
		testcontainers.WithCmdArgs("-c", "wal_level=logical"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(f.t, err, "failed to start postgres container")
	f.postgres = pg
	f.t.Cleanup(func() {
		_ = pg.Terminate(context.Background())
	})
}

func (f *StackFixture) startRedpanda(ctx context.Context) {
	f.t.Helper()

	rp, err := redpanda.Run(ctx,
		redpandaImage,
		network.WithNetwork([]string{redpandaAlias}, f.network),
		redpanda.WithListener(internalBroker),
	)
	require.NoError(f.t, err, "failed to start redpanda container")
	f.redpanda = rp
	f.t.Cleanup(func() {
		_ = rp.Terminate(context.Background())
	})

	brokers, err := rp.KafkaSeedBroker(ctx)
	require.NoError(f.t, err, "failed to get redpanda seed broker")
	f.seedBrokers = brokers
}

func (f *StackFixture) startConnect(ctx context.Context) {
	f.t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        connectImage,
		ExposedPorts: []string{"8083/tcp"},
		Env: map[string]string{
			"BOOTSTRAP_SERVERS":    internalBroker,
			"GROUP_ID":             "outboxtest-connect",
			"CONFIG_STORAGE_TOPIC": "connect_configs",
			"OFFSET_STORAGE_TOPIC": "connect_offsets",
			"STATUS_STORAGE_TOPIC": "connect_statuses",
		},
		Networks: []string{f.network.Name},
		WaitingFor: wait.ForHTTP("/connectors").
			WithPort("8083/tcp").
			WithStartupTimeout(3 * time.Minute),
	}
	connect, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(f.t, err, "failed to start kafka connect container")
	f.connect = connect
	f.t.Cleanup(func() {
		_ = connect.Terminate(context.Background())
	})

	endpoint, err := connect.PortEndpoint(ctx, "8083/tcp", "http")
	require.NoError(f.t, err, "failed to get kafka connect endpoint")
	f.connectURL = endpoint
}

// ConnectURL returns the host-reachable Kafka Connect REST endpoint.
func (f *StackFixture) ConnectURL() string {
	return f.connectURL
}

// SeedBrokers returns the host-reachable Redpanda broker address.
func (f *StackFixture) SeedBrokers() string {
	return f.seedBrokers
}

// Logger returns the fixture logger.
func (f *StackFixture) Logger() hclog.Logger {
	return f.logger
}

// Source returns configuration pointing the connector at the containers by
// their network aliases. The JDBC URL carries the alias hostname, so the
// localhost rewrite never fires here; that path is covered by unit tests.
func (f *StackFixture) Source() config.Source {
	return config.StaticSource{
		config.KeyJDBCURL:    fmt.Sprintf("jdbc:postgresql://%s:5432/%s", postgresAlias, databaseName),
		config.KeyUsername:   databaseUser,
		config.KeyPassword:   databasePassword,
		config.KeyConnectURL: f.connectURL,
		config.KeyBrokers:    f.seedBrokers,
	}
}

// HostParams returns connection parameters reaching PostgreSQL from the test
// process through the container's mapped port. Used for seeding rows; the
// connector itself connects through the network alias instead.
func (f *StackFixture) HostParams(ctx context.Context) datasource.ConnectionParams {
	f.t.Helper()

	host, err := f.postgres.Host(ctx)
	require.NoError(f.t, err, "failed to get postgres host")
	port, err := f.postgres.MappedPort(ctx, "5432/tcp")
	require.NoError(f.t, err, "failed to get postgres mapped port")

	return datasource.ConnectionParams{
		Hostname:     host,
		Port:         port.Int(),
		DatabaseName: databaseName,
		Username:     databaseUser,
		Password:     databasePassword,
	}
}

// CreateTopic creates a Kafka topic through the host-reachable broker.
func (f *StackFixture) CreateTopic(ctx context.Context, topic string) {
	f.t.Helper()

	adminClient, err := kgo.NewClient(
		kgo.SeedBrokers(f.seedBrokers),
	)
	require.NoError(f.t, err)
	defer adminClient.Close()

	createTopicsReq := kmsg.NewCreateTopicsRequest()
	createTopicsReq.Topics = []kmsg.CreateTopicsRequestTopic{
		{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}
	_, err = adminClient.Request(ctx, &createTopicsReq)
	require.NoError(f.t, err)

	// Wait for topic metadata to propagate.
	time.Sleep(1 * time.Second)
}
