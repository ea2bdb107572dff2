package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/capturekit/outboxtest/internal/config"
)

func TestBrokers(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		assert.Equal(t, []string{DefaultBroker}, Brokers(config.StaticSource{}))
	})

	t.Run("single broker", func(t *testing.T) {
		src := config.StaticSource{config.KeyBrokers: "redpanda:29092"}
		assert.Equal(t, []string{"redpanda:29092"}, Brokers(src))
	})

	t.Run("comma separated list", func(t *testing.T) {
		src := config.StaticSource{config.KeyBrokers: "a:9092, b:9092 ,c:9092"}
		assert.Equal(t, []string{"a:9092", "b:9092", "c:9092"}, Brokers(src))
	})

	t.Run("blank entries fall back to default", func(t *testing.T) {
		src := config.StaticSource{config.KeyBrokers: " , "}
		assert.Equal(t, []string{DefaultBroker}, Brokers(src))
	})
}

func TestOutboxTopic(t *testing.T) {
	assert.Equal(t, DefaultOutboxTopic, OutboxTopic(config.StaticSource{}))

	src := config.StaticSource{config.KeyOutboxTopic: "outbox.event.orders"}
	assert.Equal(t, "outbox.event.orders", OutboxTopic(src))
}
