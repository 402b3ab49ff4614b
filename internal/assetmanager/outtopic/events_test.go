package outtopic

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/elements"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/ffdc"
	"github.com/MihaiIliescu/egeria/internal/auditlog"
	"github.com/MihaiIliescu/egeria/internal/messaging"
)

type failingProducer struct{}

func (failingProducer) Publish(context.Context, messaging.Topic, string, any) error {
	return errors.New("broker unavailable")
}

func (failingProducer) Close() error { return nil }

func TestTopicPublisher(t *testing.T) {
	bus := messaging.NewMemoryBus(nil)
	p := NewTopicPublisher(bus, "am.out", nil, nil)
	assert.Equal(t, "am.out", p.Topic())

	p.Publish(context.Background(), &Event{
		EventType:     NewElementCreated,
		ServerName:    "cocoMDS1",
		ElementHeader: elements.ElementHeader{GUID: "guid-1", Type: elements.ElementType{TypeName: "Process"}},
	})
	p.Publish(context.Background(), nil)

	msgs := bus.Messages("am.out")
	require.Len(t, msgs, 1)
	assert.Equal(t, "guid-1", msgs[0].Key)

	var event Event
	require.NoError(t, json.Unmarshal(msgs[0].Value, &event))
	assert.Equal(t, NewElementCreated, event.EventType)
	assert.Equal(t, EventVersion, event.EventVersion)
	assert.False(t, event.EventTime.IsZero())
	assert.Equal(t, "Process", event.ElementHeader.Type.TypeName)
}

func TestTopicPublisherFailureIsAudited(t *testing.T) {
	dest := &auditlog.MemoryDestination{}
	audit := auditlog.New("cocoMDS1", ffdc.Component, nil, dest)
	p := NewTopicPublisher(failingProducer{}, "am.out", audit, nil)

	p.Publish(context.Background(), &Event{EventType: ElementDeleted, ElementHeader: elements.ElementHeader{GUID: "guid-2"}})

	records := dest.Records()
	require.Len(t, records, 1)
	assert.Equal(t, ffdc.OutTopicEventFailure.ID, records[0].MessageID)
	assert.Contains(t, records[0].Message, "guid-2")
	assert.Contains(t, records[0].Exception, "broker unavailable")
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	p.Publish(context.Background(), &Event{EventType: ElementUpdated})
}
