package ws

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/outtopic"
)

// Publisher passes each event to the next publisher and then broadcasts it on the hub under
// the name of the server that raised it.
type Publisher struct {
	next   outtopic.Publisher
	hub    *Hub
	logger *zap.Logger
}

var _ outtopic.Publisher = (*Publisher)(nil)

// NewPublisher wraps next, which may be nil.
func NewPublisher(hub *Hub, next outtopic.Publisher, logger *zap.Logger) *Publisher {
	if next == nil {
		next = outtopic.NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{next: next, hub: hub, logger: logger}
}

// Publish implements outtopic.Publisher.
func (p *Publisher) Publish(ctx context.Context, event *outtopic.Event) {
	p.next.Publish(ctx, event)
	if event == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to encode out topic event for streaming", zap.Error(err))
		return
	}
	p.hub.Broadcast(event.ServerName, data)
}
