// Package dbwatch publishes change-notification events to Kafka so that other services can learn
// that a configuration lookup missed (or, for a caller that watches file mtimes, that the
// underlying database file may have changed) without polling. In this module only dbhttp's
// resolve handler publishes, and only for misses. It is a producer, the mirror image of
// sonalyze/daemon/kafka.go's consumer.
package dbwatch

import (
	"context"
	"encoding/json"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Event describes a single notable occurrence worth publishing: a missing required key, or a
// database file that was (re)opened.
type Event struct {
	Cluster string `json:"cluster"`
	Kind    string `json:"kind"` // "miss", "opened"
	Key     string `json:"key,omitempty"`
	Path    string `json:"path,omitempty"`
}

const (
	KindMiss   = "miss"
	KindOpened = "opened"
)

// Publisher owns a franz-go client configured to produce to one topic.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// NewPublisher connects to broker and prepares to publish to topic.
func NewPublisher(broker, topic string) (*Publisher, error) {
	cl, err := kgo.NewClient(kgo.SeedBrokers(broker))
	if err != nil {
		return nil, err
	}
	return &Publisher{client: cl, topic: topic}, nil
}

// Publish JSON-encodes ev and produces it asynchronously; errback, if non-nil, is invoked with any
// produce error once the broker acknowledges (or fails to).
func (p *Publisher) Publish(ctx context.Context, ev Event, errback func(error)) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	record := &kgo.Record{Topic: p.topic, Key: []byte(ev.Cluster), Value: payload}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if errback != nil && err != nil {
			errback(err)
		}
	})
	return nil
}

// Close flushes any pending produces and releases the client.
func (p *Publisher) Close(ctx context.Context) error {
	if err := p.client.Flush(ctx); err != nil {
		p.client.Close()
		return err
	}
	p.client.Close()
	return nil
}
