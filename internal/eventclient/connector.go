package eventclient

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/outtopic"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/rest"
	"github.com/MihaiIliescu/egeria/internal/messaging"
)

const (
	// KafkaConnectorProvider names the connector provider of a Kafka out topic.
	KafkaConnectorProvider = "kafka"
	// TopicProperty holds the topic name in the configuration properties of a connection.
	TopicProperty = "topic"
	// CallerIDProperty holds the caller id the server added to the connection.
	CallerIDProperty = "local.server.id"
)

// Listener receives the raw payload of each out topic event.
type Listener interface {
	ProcessEvent(ctx context.Context, payload []byte) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, payload []byte) error

// ProcessEvent implements Listener.
func (f ListenerFunc) ProcessEvent(ctx context.Context, payload []byte) error { return f(ctx, payload) }

// AssetManagerListener decodes asset manager out topic events before handing them to fn.
func AssetManagerListener(fn func(ctx context.Context, event *outtopic.Event) error) Listener {
	return ListenerFunc(func(ctx context.Context, payload []byte) error {
		var event outtopic.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		return fn(ctx, &event)
	})
}

// OutTopicConnector delivers the events of one out topic to registered listeners.
type OutTopicConnector interface {
	Start(ctx context.Context) error
	RegisterListener(userID string, listener Listener) error
	Disconnect() error
}

// ConnectorBroker turns a connection into a connector. It returns nil when the connection
// names a provider it does not know.
type ConnectorBroker interface {
	GetConnector(ctx context.Context, connection *rest.Connection) (any, error)
}

// BrokerFunc adapts a function to ConnectorBroker.
type BrokerFunc func(ctx context.Context, connection *rest.Connection) (any, error)

// GetConnector implements ConnectorBroker.
func (f BrokerFunc) GetConnector(ctx context.Context, connection *rest.Connection) (any, error) {
	return f(ctx, connection)
}

// KafkaConnectorBroker builds Kafka readers for connections whose provider is kafka. The
// endpoint is a comma separated broker list.
type KafkaConnectorBroker struct {
	Config *messaging.KafkaConfig
	Logger *zap.Logger
}

// GetConnector implements ConnectorBroker.
func (b *KafkaConnectorBroker) GetConnector(_ context.Context, connection *rest.Connection) (any, error) {
	if connection == nil || !strings.EqualFold(connection.ConnectorProviderName, KafkaConnectorProvider) {
		return nil, nil
	}
	topic := stringProperty(connection, TopicProperty)
	if topic == "" {
		return nil, nil
	}
	cfg := messaging.DefaultKafkaConfig()
	if b.Config != nil {
		copied := *b.Config
		cfg = &copied
	}
	if connection.Endpoint != "" {
		cfg.Brokers = strings.Split(connection.Endpoint, ",")
	}
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	consumer := messaging.NewKafkaConsumer(cfg, logger)
	return NewTopicConnector(consumer, messaging.Topic(topic), groupID(connection), true, logger), nil
}

// ConsumerBroker serves every connection that names a topic from one shared consumer, such
// as an in-process bus.
type ConsumerBroker struct {
	Consumer messaging.Consumer
	Logger   *zap.Logger
}

// GetConnector implements ConnectorBroker.
func (b *ConsumerBroker) GetConnector(_ context.Context, connection *rest.Connection) (any, error) {
	if connection == nil || b.Consumer == nil {
		return nil, nil
	}
	topic := stringProperty(connection, TopicProperty)
	if topic == "" {
		return nil, nil
	}
	return NewTopicConnector(b.Consumer, messaging.Topic(topic), groupID(connection), false, b.Logger), nil
}

func stringProperty(connection *rest.Connection, name string) string {
	if v, ok := connection.ConfigurationProperties[name].(string); ok {
		return v
	}
	return ""
}

func groupID(connection *rest.Connection) string {
	if id := stringProperty(connection, CallerIDProperty); id != "" {
		return id
	}
	return connection.QualifiedName
}

type registration struct {
	userID   string
	listener Listener
}

// TopicConnector reads one topic through a messaging.Consumer and fans each message out to
// the registered listeners.
type TopicConnector struct {
	consumer      messaging.Consumer
	topic         messaging.Topic
	groupID       string
	ownsConsumer  bool
	logger        *zap.Logger
	mu            sync.RWMutex
	registrations []registration
	cancel        context.CancelFunc
	stopped       bool
}

var _ OutTopicConnector = (*TopicConnector)(nil)

// NewTopicConnector creates a connector. When ownsConsumer is set, Disconnect closes the
// consumer too.
func NewTopicConnector(consumer messaging.Consumer, topic messaging.Topic, groupID string, ownsConsumer bool,
	logger *zap.Logger) *TopicConnector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TopicConnector{
		consumer:     consumer,
		topic:        topic,
		groupID:      groupID,
		ownsConsumer: ownsConsumer,
		logger:       logger.With(zap.String("topic", string(topic))),
	}
}

// Topic returns the topic being read.
func (c *TopicConnector) Topic() messaging.Topic { return c.topic }

// Start subscribes to the topic. Events read before any listener registers are dropped.
func (c *TopicConnector) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()
	if err := c.consumer.Subscribe(ctx, c.topic, c.groupID, c.deliver); err != nil {
		cancel()
		return err
	}
	c.logger.Info("out topic connector started", zap.String("group", c.groupID))
	return nil
}

func (c *TopicConnector) deliver(ctx context.Context, msg *messaging.ReceivedMessage) error {
	c.mu.RLock()
	if c.stopped {
		c.mu.RUnlock()
		return nil
	}
	registrations := append([]registration(nil), c.registrations...)
	c.mu.RUnlock()

	for _, r := range registrations {
		if err := r.listener.ProcessEvent(ctx, msg.Value); err != nil {
			c.logger.Warn("listener rejected event",
				zap.String("user", r.userID),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
		}
	}
	return nil
}

// RegisterListener adds a listener.
func (c *TopicConnector) RegisterListener(userID string, listener Listener) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations = append(c.registrations, registration{userID: userID, listener: listener})
	return nil
}

// Disconnect stops reading. A shared consumer keeps running but nothing more is delivered.
func (c *TopicConnector) Disconnect() error {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.stopped = true
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if c.ownsConsumer {
		return c.consumer.Close()
	}
	return nil
}
