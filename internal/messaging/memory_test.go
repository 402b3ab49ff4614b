package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBusDelivers(t *testing.T) {
	bus := NewMemoryBus(nil)
	ctx := context.Background()

	var got []string
	require.NoError(t, bus.Subscribe(ctx, "out", "g1", func(_ context.Context, msg *ReceivedMessage) error {
		var body map[string]string
		require.NoError(t, json.Unmarshal(msg.Value, &body))
		got = append(got, msg.Key+"="+body["eventType"])
		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx, "out", "g2", func(context.Context, *ReceivedMessage) error {
		return errors.New("handler failures are logged, not returned")
	}))

	require.NoError(t, bus.Publish(ctx, "out", "guid-1", map[string]string{"eventType": "NEW_ELEMENT_CREATED"}))
	require.NoError(t, bus.Publish(ctx, "other", "guid-2", map[string]string{"eventType": "ELEMENT_UPDATED"}))

	assert.Equal(t, []string{"guid-1=NEW_ELEMENT_CREATED"}, got)
	msgs := bus.Messages("out")
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(0), msgs[0].Offset)
	assert.Len(t, bus.Messages("other"), 1)
}

func TestMemoryBusClosed(t *testing.T) {
	bus := NewMemoryBus(nil)
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())
	assert.Error(t, bus.Publish(context.Background(), "out", "k", "v"))
	assert.Error(t, bus.Subscribe(context.Background(), "out", "g", nil))
}

func TestMemoryBusRejectsUnencodable(t *testing.T) {
	bus := NewMemoryBus(nil)
	assert.Error(t, bus.Publish(context.Background(), "out", "k", make(chan int)))
}
