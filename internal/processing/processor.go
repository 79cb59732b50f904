package processing

import (
	"context"
	"fmt"
	"time"

	"intake/internal/constants"
	"intake/internal/logger"
	"intake/internal/notify"
	"intake/internal/store"
	"intake/pkg/errors"
	"intake/pkg/metrics"
	"intake/pkg/models"
	"intake/pkg/tracing"
)

// ItemProcessor turns item envelopes into persisted item records.
type ItemProcessor struct {
	repo   store.ItemRepository
	guard  *Guard
	logger logger.Logger
}

func NewItemProcessor(repo store.ItemRepository, guard *Guard, log logger.Logger) *ItemProcessor {
	return &ItemProcessor{
		repo:   repo,
		guard:  guard,
		logger: log,
	}
}

// Handle processes a single item delivery. It satisfies broker.HandlerFunc.
func (p *ItemProcessor) Handle(ctx context.Context, msg models.MessageEnvelope) error {
	ctx, span := tracing.GetTracer("processing-service").Start(ctx, "processing.item")
	defer span.End()

	start := time.Now()

	// Decode before claiming so a malformed envelope never holds a claim
	// and redeliveries keep reporting as malformed.
	var item models.ItemMessage
	if err := msg.DecodePayload(&item); err != nil {
		metrics.ProcessingMessagesTotal.WithLabelValues(constants.PipelineItems, "malformed").Inc()
		return errors.ErrValidation.WithCause(err)
	}

	proceed, err := p.guard.Claim(ctx, msg.ID)
	if err != nil {
		metrics.ProcessingMessagesTotal.WithLabelValues(constants.PipelineItems, "error").Inc()
		return err
	}
	if !proceed {
		metrics.ProcessingMessagesTotal.WithLabelValues(constants.PipelineItems, "duplicate").Inc()
		p.logger.InfowCtx(ctx, "Skipping already-processed envelope", "envelope_id", msg.ID)
		return nil
	}

	record := store.ItemRecord{
		ID:                 msg.ID,
		CustomerID:         item.CustomerID,
		ItemData:           item.ItemData,
		ContainsHelloWorld: ContainsHelloWorld(item.ItemData),
		IsPalindrome:       IsPalindrome(item.ItemData),
		CreatedAt:          time.Now(),
	}

	if err := p.repo.Upsert(ctx, record); err != nil {
		p.guard.Release(ctx, msg.ID)
		metrics.ProcessingMessagesTotal.WithLabelValues(constants.PipelineItems, "error").Inc()
		return fmt.Errorf("failed to store item record %s: %w", msg.ID, err)
	}

	metrics.ProcessingMessagesTotal.WithLabelValues(constants.PipelineItems, "success").Inc()
	metrics.ObserveProcessingDuration(constants.PipelineItems, time.Since(start))

	p.logger.InfowCtx(ctx, "Processed item message",
		"envelope_id", msg.ID,
		"customer_id", record.CustomerID,
		"contains_hello_world", record.ContainsHelloWorld,
		"is_palindrome", record.IsPalindrome,
	)
	return nil
}

// QuoteProcessor rates quote envelopes, persists the result, and announces
// the completion.
type QuoteProcessor struct {
	repo     store.QuoteRepository
	rater    Rater
	guard    *Guard
	notifier notify.Notifier
	logger   logger.Logger
}

func NewQuoteProcessor(repo store.QuoteRepository, rater Rater, guard *Guard, notifier notify.Notifier, log logger.Logger) *QuoteProcessor {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &QuoteProcessor{
		repo:     repo,
		rater:    rater,
		guard:    guard,
		notifier: notifier,
		logger:   log,
	}
}

// Handle processes a single quote delivery. The notification is published
// only after the record has been stored; a notification failure is logged
// but does not fail the delivery, since the record is already durable.
func (p *QuoteProcessor) Handle(ctx context.Context, msg models.MessageEnvelope) error {
	ctx, span := tracing.GetTracer("processing-service").Start(ctx, "processing.quote")
	defer span.End()

	start := time.Now()

	var quote models.QuoteMessage
	if err := msg.DecodePayload(&quote); err != nil {
		metrics.ProcessingMessagesTotal.WithLabelValues(constants.PipelineQuotes, "malformed").Inc()
		return errors.ErrValidation.WithCause(err)
	}

	proceed, err := p.guard.Claim(ctx, msg.ID)
	if err != nil {
		metrics.ProcessingMessagesTotal.WithLabelValues(constants.PipelineQuotes, "error").Inc()
		return err
	}
	if !proceed {
		metrics.ProcessingMessagesTotal.WithLabelValues(constants.PipelineQuotes, "duplicate").Inc()
		p.logger.InfowCtx(ctx, "Skipping already-processed envelope", "envelope_id", msg.ID)
		return nil
	}

	record := store.QuoteRecord{
		ID:                  msg.ID,
		Name:                quote.Name,
		Email:               quote.Email,
		CarType:             quote.CarType,
		CreditScoreEstimate: quote.CreditScoreEstimate,
		MonthlyPremium:      p.rater.MonthlyPremium(quote),
		CreatedAt:           time.Now(),
	}

	if err := p.repo.Upsert(ctx, record); err != nil {
		p.guard.Release(ctx, msg.ID)
		metrics.ProcessingMessagesTotal.WithLabelValues(constants.PipelineQuotes, "error").Inc()
		return fmt.Errorf("failed to store quote record %s: %w", msg.ID, err)
	}

	if err := p.notifier.QuoteProcessed(ctx, record.ID); err != nil {
		p.logger.ErrorwCtx(ctx, "Failed to publish quote notification",
			"error", err,
			"quote_id", record.ID,
		)
	}

	metrics.ProcessingMessagesTotal.WithLabelValues(constants.PipelineQuotes, "success").Inc()
	metrics.ObserveProcessingDuration(constants.PipelineQuotes, time.Since(start))

	p.logger.InfowCtx(ctx, "Processed quote request",
		"envelope_id", msg.ID,
		"name", record.Name,
		"monthly_premium", record.MonthlyPremium,
	)
	return nil
}
