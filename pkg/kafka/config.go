// Package kafka resolves broker addresses and topic names for verifying
// routed outbox events, and provides a small consumer for tests.
package kafka

import (
	"strings"

	"github.com/capturekit/outboxtest/internal/config"
)

// Defaults used when neither the environment nor a config file sets a value.
const (
	DefaultBroker      = "localhost:19092"
	DefaultOutboxTopic = "outbox.event.events"
)

// Brokers returns the Kafka/Redpanda broker addresses from the
// "kafka.brokers" key (comma-separated), falling back to the default local
// broker.
func Brokers(src config.Source) []string {
	if v, ok := src.Get(config.KeyBrokers); ok {
		parts := strings.Split(v, ",")
		brokers := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				brokers = append(brokers, p)
			}
		}
		if len(brokers) > 0 {
			return brokers
		}
	}
	return []string{DefaultBroker}
}

// OutboxTopic returns the topic the event router publishes outbox events to,
// falling back to the default route for the "events" aggregate type.
func OutboxTopic(src config.Source) string {
	if v, ok := src.Get(config.KeyOutboxTopic); ok {
		return v
	}
	return DefaultOutboxTopic
}
