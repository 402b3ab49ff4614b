// Package messaging moves access service events over topics: Kafka in a deployment, an
// in-process bus in tests and single-process setups.
package messaging

import (
	"context"
	"time"
)

// Topic is the name of a topic.
type Topic string

// Producer writes JSON encoded events to a topic.
type Producer interface {
	Publish(ctx context.Context, topic Topic, key string, message any) error
	Close() error
}

// Consumer delivers the events of a topic to a handler. Implementations call the handler
// for one message at a time per subscription.
type Consumer interface {
	Subscribe(ctx context.Context, topic Topic, groupID string, handler MessageHandler) error
	Close() error
}

// MessageHandler processes one delivered event. A returned error is logged; delivery
// continues with the next event.
type MessageHandler func(ctx context.Context, msg *ReceivedMessage) error

// ReceivedMessage is an event as read from a topic.
type ReceivedMessage struct {
	Topic     string
	Key       string
	Value     []byte
	Headers   map[string][]byte
	Offset    int64
	Partition int
	Timestamp time.Time
}

// contentType is stamped on every produced event.
const contentType = "application/json"
