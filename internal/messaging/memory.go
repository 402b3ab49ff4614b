package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MemoryBus is an in-process Producer and Consumer. Published messages are delivered
// synchronously to every subscriber of the topic and kept for inspection.
type MemoryBus struct {
	mu        sync.RWMutex
	handlers  map[Topic][]MessageHandler
	published map[Topic][]*ReceivedMessage
	logger    *zap.Logger
	closed    bool
}

var (
	_ Producer = (*MemoryBus)(nil)
	_ Consumer = (*MemoryBus)(nil)
)

// NewMemoryBus creates an empty bus.
func NewMemoryBus(logger *zap.Logger) *MemoryBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryBus{
		handlers:  make(map[Topic][]MessageHandler),
		published: make(map[Topic][]*ReceivedMessage),
		logger:    logger,
	}
}

// Publish implements Producer.
func (b *MemoryBus) Publish(ctx context.Context, topic Topic, key string, message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return b.PublishRaw(ctx, topic, key, data)
}

// PublishRaw delivers an already encoded message.
func (b *MemoryBus) PublishRaw(ctx context.Context, topic Topic, key string, value []byte) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("bus closed")
	}
	msg := &ReceivedMessage{
		Topic:     string(topic),
		Key:       key,
		Value:     value,
		Headers:   map[string][]byte{},
		Offset:    int64(len(b.published[topic])),
		Timestamp: time.Now(),
	}
	b.published[topic] = append(b.published[topic], msg)
	handlers := append([]MessageHandler(nil), b.handlers[topic]...)
	b.mu.Unlock()

	for _, h := range handlers {
		if err := h(ctx, msg); err != nil {
			b.logger.Error("Message handler failed",
				zap.Error(err),
				zap.String("topic", string(topic)),
				zap.Int64("offset", msg.Offset))
		}
	}
	return nil
}

// Subscribe implements Consumer. The group id is ignored.
func (b *MemoryBus) Subscribe(_ context.Context, topic Topic, _ string, handler MessageHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("bus closed")
	}
	b.handlers[topic] = append(b.handlers[topic], handler)
	return nil
}

// Messages returns the messages published to topic so far.
func (b *MemoryBus) Messages(topic Topic) []*ReceivedMessage {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*ReceivedMessage(nil), b.published[topic]...)
}

// Close stops delivery. Closing twice is harmless.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[Topic][]MessageHandler)
	return nil
}
