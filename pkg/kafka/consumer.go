package kafka

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/twmb/franz-go/pkg/kgo"
)

// WaitForRecords consumes topic from the beginning and blocks until want
// records have arrived or ctx is done. Tests use it to assert that captured
// outbox events were actually routed.
func WaitForRecords(ctx context.Context, brokers []string, topic string, want int, logger hclog.Logger) ([]*kgo.Record, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	defer client.Close()

	var records []*kgo.Record
	for len(records) < want {
		fetches := client.PollFetches(ctx)
		if err := ctx.Err(); err != nil {
			return records, fmt.Errorf("gave up waiting for records on %q after %d of %d: %w", topic, len(records), want, err)
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			// Transient broker errors keep the poll alive until ctx is done.
			for _, fe := range errs {
				logger.Debug("fetch error", "topic", fe.Topic, "error", fe.Err)
			}
		}
		fetches.EachRecord(func(r *kgo.Record) {
			records = append(records, r)
		})
	}
	return records, nil
}
