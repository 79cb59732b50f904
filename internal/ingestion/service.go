package ingestion

import (
	"context"
	"time"

	"intake/internal/broker"
	"intake/internal/constants"
	"intake/internal/logger"
	"intake/pkg/errors"
	"intake/pkg/logging"
	"intake/pkg/metrics"
	"intake/pkg/models"
	"intake/pkg/tracing"
)

// Service validates incoming requests and enqueues them for processing.
// Acceptance means the envelope was handed to the broker; derivation and
// persistence happen later in the processing service.
type Service struct {
	producer    broker.Producer
	itemsTopic  string
	quotesTopic string
	logger      logger.Logger
}

func NewService(producer broker.Producer, itemsTopic, quotesTopic string, log logger.Logger) *Service {
	if itemsTopic == "" {
		itemsTopic = constants.DefaultItemsTopic
	}
	if quotesTopic == "" {
		quotesTopic = constants.DefaultQuotesTopic
	}
	return &Service{
		producer:    producer,
		itemsTopic:  itemsTopic,
		quotesTopic: quotesTopic,
		logger:      log,
	}
}

// EnqueueItem validates and enqueues an item message. It returns the
// envelope ID assigned to the accepted request.
func (s *Service) EnqueueItem(ctx context.Context, msg models.ItemMessage) (string, error) {
	ctx, span := tracing.GetTracer("ingestion-service").Start(ctx, "ingestion.enqueue_item")
	defer span.End()

	start := time.Now()

	if err := ValidateItem(msg); err != nil {
		metrics.IngestRequestsTotal.WithLabelValues(constants.PipelineItems, "invalid").Inc()
		return "", err
	}

	id, err := s.enqueue(ctx, s.itemsTopic, msg)
	if err != nil {
		metrics.IngestRequestsTotal.WithLabelValues(constants.PipelineItems, "error").Inc()
		return "", err
	}

	metrics.IngestRequestsTotal.WithLabelValues(constants.PipelineItems, "accepted").Inc()
	metrics.ObserveIngestDuration(constants.PipelineItems, time.Since(start))

	s.logger.InfowCtx(ctx, "Queued item for processing",
		"envelope_id", id,
		"customer_id", msg.CustomerID,
	)
	return id, nil
}

// EnqueueQuote validates and enqueues a quote request.
func (s *Service) EnqueueQuote(ctx context.Context, msg models.QuoteMessage) (string, error) {
	ctx, span := tracing.GetTracer("ingestion-service").Start(ctx, "ingestion.enqueue_quote")
	defer span.End()

	start := time.Now()

	if err := ValidateQuote(msg); err != nil {
		metrics.IngestRequestsTotal.WithLabelValues(constants.PipelineQuotes, "invalid").Inc()
		return "", err
	}

	id, err := s.enqueue(ctx, s.quotesTopic, msg)
	if err != nil {
		metrics.IngestRequestsTotal.WithLabelValues(constants.PipelineQuotes, "error").Inc()
		return "", err
	}

	metrics.IngestRequestsTotal.WithLabelValues(constants.PipelineQuotes, "accepted").Inc()
	metrics.ObserveIngestDuration(constants.PipelineQuotes, time.Since(start))

	s.logger.InfowCtx(ctx, "Queued quote request for processing",
		"envelope_id", id,
		"name", msg.Name,
	)
	return id, nil
}

func (s *Service) enqueue(ctx context.Context, topic string, payload interface{}) (string, error) {
	env, err := models.NewEnvelope(models.SourceIngestionAPI, payload)
	if err != nil {
		return "", errors.ErrInternal.WithCause(err)
	}
	env.Metadata.TraceID = logging.GetTraceID(ctx)

	if err := s.producer.Publish(ctx, topic, env); err != nil {
		s.logger.ErrorwCtx(ctx, "Failed to publish envelope",
			"error", err,
			"topic", topic,
			"envelope_id", env.ID,
		)
		return "", errors.ErrServiceUnavailable.WithCause(err)
	}
	return env.ID, nil
}
