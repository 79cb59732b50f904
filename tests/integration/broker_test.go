package integration

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake/internal/broker"
	"intake/internal/notify"
	"intake/pkg/models"
)

func TestKafkaProducerConsumerRoundtrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	infra := SetupTestInfra(t, InfraOptions{Kafka: true})
	cfg := createTestKafkaConfig(infra.KafkaBrokers)
	log := createTestLogger()

	producer, err := broker.NewProducer(cfg, log)
	require.NoError(t, err)
	defer producer.Close()

	consumer, err := broker.NewConsumer(cfg, log)
	require.NoError(t, err)
	defer consumer.Close()
	consumer.SetServiceName("integration-test")

	envelope, err := models.NewEnvelope(models.SourceIngestionAPI, models.ItemMessage{
		CustomerID: 5,
		ItemData:   "hello world",
	})
	require.NoError(t, err)

	const topic = "roundtrip_test"
	require.NoError(t, producer.Publish(context.Background(), topic, envelope))

	received := make(chan models.MessageEnvelope, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	go consumer.Consume(ctx, topic, func(_ context.Context, msg models.MessageEnvelope) error {
		received <- msg
		return nil
	})

	select {
	case got := <-received:
		assert.Equal(t, envelope.ID, got.ID)
		assert.Equal(t, envelope.Source, got.Source)

		var item models.ItemMessage
		require.NoError(t, got.DecodePayload(&item))
		assert.Equal(t, 5, item.CustomerID)
		assert.Equal(t, "hello world", item.ItemData)
	case <-ctx.Done():
		t.Fatal("timed out waiting for delivery")
	}
	cancel()
}

func TestKafkaNotifierPublishesPlainText(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	infra := SetupTestInfra(t, InfraOptions{Kafka: true})
	cfg := createTestKafkaConfig(infra.KafkaBrokers)
	log := createTestLogger()

	producer, err := broker.NewProducer(cfg, log)
	require.NoError(t, err)
	defer producer.Close()

	const topic = "notification_test"
	notifier := notify.NewBrokerNotifier(producer, topic, log)
	require.NoError(t, notifier.QuoteProcessed(context.Background(), "quote-123"))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  infra.KafkaBrokers,
		Topic:    topic,
		GroupID:  "notification-test-reader",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	m, err := reader.ReadMessage(ctx)
	require.NoError(t, err)

	// The notification body is plain text, not an envelope.
	assert.Equal(t, notify.QuoteProcessedMessage, string(m.Value))
	assert.Equal(t, "quote-123", string(m.Key))
}
