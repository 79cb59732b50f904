package broker

import (
	"context"

	"intake/pkg/models"
)

type Producer interface {
	Publish(ctx context.Context, topic string, msg models.MessageEnvelope) error
	// PublishRaw writes an unstructured message body, used for the
	// plain-text completion notifications.
	PublishRaw(ctx context.Context, topic string, key, value []byte) error
	Close() error
}

type Consumer interface {
	Consume(ctx context.Context, topic string, handler HandlerFunc) error
	Close() error
	SetServiceName(name string)
}

type HandlerFunc func(ctx context.Context, msg models.MessageEnvelope) error
