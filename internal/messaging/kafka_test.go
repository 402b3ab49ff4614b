package messaging

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihaiIliescu/egeria/internal/config"
)

func TestKafkaConfigFrom(t *testing.T) {
	kc := KafkaConfigFrom(config.KafkaConfig{Brokers: []string{"kafka:9092"}, ConsumerGroupPrefix: "coco"})
	assert.Equal(t, []string{"kafka:9092"}, kc.Brokers)
	assert.Equal(t, "coco", kc.GroupPrefix)

	kc = KafkaConfigFrom(config.KafkaConfig{})
	assert.Equal(t, DefaultKafkaConfig().Brokers, kc.Brokers)
	assert.Equal(t, "omag", kc.GroupPrefix)
}

func TestProducerWriterIsReused(t *testing.T) {
	p := NewKafkaProducer(nil, nil)
	w1 := p.writer("topic-a")
	w2 := p.writer("topic-a")
	assert.Same(t, w1, w2)
	assert.NotSame(t, w1, p.writer("topic-b"))
	assert.Equal(t, "topic-a", w1.Topic)
	assert.Equal(t, kafka.RequireAll, w1.RequiredAcks)
	require.NoError(t, p.Close())
}

func TestWriterCodec(t *testing.T) {
	for codec, want := range map[string]kafka.Compression{
		"gzip": kafka.Gzip,
		"lz4":  kafka.Lz4,
		"zstd": kafka.Zstd,
		"":     kafka.Snappy,
	} {
		kc := DefaultKafkaConfig()
		kc.Codec = codec
		assert.Equal(t, want, kc.newWriter("t").Compression, codec)
	}
}

func TestConsumerRejectsDuplicateSubscription(t *testing.T) {
	c := NewKafkaConsumer(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	noop := func(context.Context, *ReceivedMessage) error { return nil }

	require.NoError(t, c.Subscribe(ctx, "in-topic", "data-engine", noop))
	assert.Error(t, c.Subscribe(ctx, "in-topic", "data-engine", noop))
	assert.NoError(t, c.Subscribe(ctx, "in-topic", "other", noop))
	assert.NoError(t, c.Close())
}

func TestToReceivedCopiesHeaders(t *testing.T) {
	m := toReceived(kafka.Message{
		Topic:   "out",
		Key:     []byte("guid-1"),
		Value:   []byte(`{}`),
		Headers: []kafka.Header{{Key: "content-type", Value: []byte(contentType)}},
		Offset:  7,
	})
	assert.Equal(t, "guid-1", m.Key)
	assert.Equal(t, int64(7), m.Offset)
	assert.Equal(t, []byte(contentType), m.Headers["content-type"])
}
