package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/config"
)

// KafkaConfig tunes the Kafka writers and readers.
type KafkaConfig struct {
	Brokers       []string
	DialTimeout   time.Duration
	FlushInterval time.Duration
	FlushSize     int
	Attempts      int
	Codec         string
	// GroupPrefix is put in front of every consumer group id.
	GroupPrefix string
	MaxBytes    int
}

// DefaultKafkaConfig returns the settings used for the OMAS topics. Writes wait for every
// in-sync replica.
func DefaultKafkaConfig() *KafkaConfig {
	return &KafkaConfig{
		Brokers:       []string{"localhost:9092"},
		DialTimeout:   10 * time.Second,
		FlushInterval: 50 * time.Millisecond,
		FlushSize:     100,
		Attempts:      3,
		Codec:         "snappy",
		GroupPrefix:   "omag",
		MaxBytes:      1 << 20,
	}
}

// KafkaConfigFrom overlays the platform configuration on the defaults.
func KafkaConfigFrom(cfg config.KafkaConfig) *KafkaConfig {
	kc := DefaultKafkaConfig()
	if len(cfg.Brokers) > 0 {
		kc.Brokers = append([]string(nil), cfg.Brokers...)
	}
	if cfg.ConsumerGroupPrefix != "" {
		kc.GroupPrefix = cfg.ConsumerGroupPrefix
	}
	return kc
}

func (kc *KafkaConfig) codec() kafka.Compression {
	switch kc.Codec {
	case "gzip":
		return kafka.Gzip
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	default:
		return kafka.Snappy
	}
}

func (kc *KafkaConfig) newWriter(topic Topic) *kafka.Writer {
	return &kafka.Writer{
		Addr:  kafka.TCP(kc.Brokers...),
		Topic: string(topic),
		// Events for one element keep their order.
		Balancer:     &kafka.Hash{},
		BatchSize:    kc.FlushSize,
		BatchTimeout: kc.FlushInterval,
		BatchBytes:   int64(kc.MaxBytes),
		ReadTimeout:  kc.DialTimeout,
		WriteTimeout: kc.DialTimeout,
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  kc.Attempts,
		Compression:  kc.codec(),
	}
}

// KafkaProducer publishes to any number of topics, one lazily created writer per topic.
type KafkaProducer struct {
	cfg    *KafkaConfig
	logger *zap.Logger

	mu      sync.Mutex
	writers map[Topic]*kafka.Writer
}

var _ Producer = (*KafkaProducer)(nil)

// NewKafkaProducer creates a producer. A nil cfg means DefaultKafkaConfig.
func NewKafkaProducer(cfg *KafkaConfig, logger *zap.Logger) *KafkaProducer {
	if cfg == nil {
		cfg = DefaultKafkaConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaProducer{cfg: cfg, logger: logger, writers: map[Topic]*kafka.Writer{}}
}

func (p *KafkaProducer) writer(topic Topic) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.writers[topic]
	if !ok {
		w = p.cfg.newWriter(topic)
		p.writers[topic] = w
	}
	return w
}

// Publish encodes message as JSON and writes it keyed by key.
func (p *KafkaProducer) Publish(ctx context.Context, topic Topic, key string, message any) error {
	value, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode event for %s: %w", topic, err)
	}
	err = p.writer(topic).WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: []kafka.Header{{Key: "content-type", Value: []byte(contentType)}},
		Time:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write event to %s: %w", topic, err)
	}
	return nil
}

// Close flushes and closes every writer.
func (p *KafkaProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			p.logger.Error("Closing topic writer failed", zap.String("topic", string(topic)), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", topic, err))
		}
	}
	p.writers = map[Topic]*kafka.Writer{}
	return errors.Join(errs...)
}

// KafkaConsumer runs one consumer group reader per subscription.
type KafkaConsumer struct {
	cfg    *KafkaConfig
	logger *zap.Logger

	mu      sync.Mutex
	readers map[string]*kafka.Reader
	wg      sync.WaitGroup
}

var _ Consumer = (*KafkaConsumer)(nil)

// NewKafkaConsumer creates a consumer. A nil cfg means DefaultKafkaConfig.
func NewKafkaConsumer(cfg *KafkaConfig, logger *zap.Logger) *KafkaConsumer {
	if cfg == nil {
		cfg = DefaultKafkaConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaConsumer{cfg: cfg, logger: logger, readers: map[string]*kafka.Reader{}}
}

// Subscribe joins the consumer group GroupPrefix-groupID on topic and feeds handler until
// ctx ends or the consumer is closed. Subscribing twice with the same group and topic fails.
func (c *KafkaConsumer) Subscribe(ctx context.Context, topic Topic, groupID string, handler MessageHandler) error {
	group := c.cfg.GroupPrefix + "-" + groupID
	name := group + "/" + string(topic)

	c.mu.Lock()
	if _, dup := c.readers[name]; dup {
		c.mu.Unlock()
		return fmt.Errorf("already subscribed to %s as %s", topic, group)
	}
	log := c.logger.With(zap.String("topic", string(topic)), zap.String("group", group))
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.cfg.Brokers,
		Topic:    string(topic),
		GroupID:  group,
		MaxBytes: c.cfg.MaxBytes,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error(fmt.Sprintf(msg, args...))
		}),
	})
	c.readers[name] = reader
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consume(ctx, reader, handler, log)
	}()
	return nil
}

func (c *KafkaConsumer) consume(ctx context.Context, reader *kafka.Reader, handler MessageHandler, log *zap.Logger) {
	for {
		m, err := reader.ReadMessage(ctx)
		switch {
		case err == nil:
		case ctx.Err() != nil, errors.Is(err, io.EOF):
			return
		default:
			log.Error("Reading topic failed", zap.Error(err))
			continue
		}

		if err := handler(ctx, toReceived(m)); err != nil {
			log.Error("Event handler failed", zap.Int64("offset", m.Offset), zap.Error(err))
		}
	}
}

func toReceived(m kafka.Message) *ReceivedMessage {
	headers := make(map[string][]byte, len(m.Headers))
	for _, h := range m.Headers {
		headers[h.Key] = h.Value
	}
	return &ReceivedMessage{
		Topic:     m.Topic,
		Key:       string(m.Key),
		Value:     m.Value,
		Headers:   headers,
		Offset:    m.Offset,
		Partition: m.Partition,
		Timestamp: m.Time,
	}
}

// Close stops every reader and waits for the delivery loops to return.
func (c *KafkaConsumer) Close() error {
	c.mu.Lock()
	var errs []error
	for name, r := range c.readers {
		if err := r.Close(); err != nil {
			c.logger.Error("Closing topic reader failed", zap.String("reader", name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	c.readers = map[string]*kafka.Reader{}
	c.mu.Unlock()

	c.wg.Wait()
	return errors.Join(errs...)
}
