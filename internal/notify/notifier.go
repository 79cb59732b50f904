package notify

import (
	"context"
	"fmt"

	"intake/internal/broker"
	"intake/internal/logger"
	"intake/pkg/metrics"
)

// QuoteProcessedMessage is the plain-text body published after a quote
// record has been persisted.
const QuoteProcessedMessage = "New Quote Processed!"

// Notifier announces pipeline completions to downstream subscribers.
type Notifier interface {
	QuoteProcessed(ctx context.Context, quoteID string) error
}

// BrokerNotifier publishes completion notifications to a broker topic.
// The body is plain text, not a JSON envelope, so that simple subscribers
// can consume it without a schema.
type BrokerNotifier struct {
	producer broker.Producer
	topic    string
	logger   logger.Logger
}

func NewBrokerNotifier(producer broker.Producer, topic string, log logger.Logger) *BrokerNotifier {
	return &BrokerNotifier{
		producer: producer,
		topic:    topic,
		logger:   log,
	}
}

func (n *BrokerNotifier) QuoteProcessed(ctx context.Context, quoteID string) error {
	err := n.producer.PublishRaw(ctx, n.topic, []byte(quoteID), []byte(QuoteProcessedMessage))
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to publish notification for quote %s: %w", quoteID, err)
	}

	metrics.NotificationsTotal.WithLabelValues("success").Inc()
	n.logger.DebugwCtx(ctx, "Published quote notification",
		"topic", n.topic,
		"quote_id", quoteID,
	)
	return nil
}

// NopNotifier drops notifications. Used when no notification topic is
// configured.
type NopNotifier struct{}

func (NopNotifier) QuoteProcessed(ctx context.Context, quoteID string) error { return nil }
