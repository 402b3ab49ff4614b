package dataengine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/auditlog"
	"github.com/MihaiIliescu/egeria/internal/dataengine"
	"github.com/MihaiIliescu/egeria/internal/messaging"
	"github.com/MihaiIliescu/egeria/internal/repository"
)

func newListener(t *testing.T) (*dataengine.InTopicListener, *fixture, *auditlog.MemoryDestination) {
	t.Helper()
	f := newFixture(t)
	records := &auditlog.MemoryDestination{}
	audit := auditlog.New(serverName, dataengine.Component, zap.NewNop(), records)
	return dataengine.NewInTopicListener(f.processor, audit, zap.NewNop()), f, records
}

func TestListenerIgnoresEmptyAndUnknownEvents(t *testing.T) {
	l, _, records := newListener(t)
	ctx := context.Background()

	assert.NoError(t, l.ProcessEvent(ctx, nil))
	assert.NoError(t, l.ProcessEvent(ctx, []byte(`{"dataEngineEventType":"SOMETHING_NEW"}`)))
	assert.NoError(t, l.ProcessEvent(ctx, []byte(`{}`)))
	assert.Empty(t, records.Records())
}

func TestListenerAuditsUnreadableEvents(t *testing.T) {
	l, _, records := newListener(t)

	assert.NoError(t, l.ProcessEvent(context.Background(), []byte(`{"dataEngineEventType":`)))
	require.Len(t, records.Records(), 1)
	r := records.Records()[0]
	assert.Equal(t, dataengine.ProcessEventException.ID, r.MessageID)
	assert.Equal(t, "process Data Engine inTopic Event", r.Action)
	assert.NotEmpty(t, r.Exception)
}

func TestListenerAuditsProcessingFailures(t *testing.T) {
	l, _, records := newListener(t)

	err := l.ProcessEvent(context.Background(), payload(t, dataengine.ProcessEventBody{
		EventHeader: header(dataengine.ProcessEvent),
		Process:     &dataengine.Process{QualifiedName: "unregistered"},
	}))
	assert.NoError(t, err)
	require.Len(t, records.Records(), 1)
	r := records.Records()[0]
	assert.Equal(t, dataengine.EventProcessingFailure.ID, r.MessageID)
	assert.Equal(t, []string{string(dataengine.ProcessEvent), engineName}, r.Parameters[:2])
}

func TestListenerDispatchesFromBus(t *testing.T) {
	l, f, records := newListener(t)
	ctx := context.Background()
	bus := messaging.NewMemoryBus(zap.NewNop())
	t.Cleanup(func() { _ = bus.Close() })
	require.NoError(t, bus.Subscribe(ctx, "in-topic", "data-engine", l.HandleMessage))

	require.NoError(t, bus.Publish(ctx, "in-topic", engineName, dataengine.RegistrationEventBody{
		EventHeader: dataengine.EventHeader{DataEngineEventType: dataengine.DataEngineRegistrationEvent},
		Engine:      &dataengine.Engine{QualifiedName: engineName},
	}))
	require.NoError(t, bus.Publish(ctx, "in-topic", engineName, dataengine.ProcessEventBody{
		EventHeader: header(dataengine.ProcessEvent),
		Process:     &dataengine.Process{QualifiedName: "from-the-bus"},
	}))

	assert.Empty(t, records.Records())
	assert.NotEmpty(t, f.guid(t, repository.ProcessType, "from-the-bus"))
}
