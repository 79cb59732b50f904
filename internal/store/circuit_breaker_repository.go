package store

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"

	"intake/internal/config"
	"intake/pkg/circuitbreaker"
)

// CircuitBreakerItemRepository guards store writes and reads so a dead
// backend trips fast instead of letting every delivery ride out its own
// timeout.
type CircuitBreakerItemRepository struct {
	repo ItemRepository
	cb   *circuitbreaker.Wrapper
}

func NewCircuitBreakerItemRepository(repo ItemRepository, cfg config.CircuitBreakerConfig) *CircuitBreakerItemRepository {
	return &CircuitBreakerItemRepository{
		repo: repo,
		cb:   newWrapper("item-store", cfg),
	}
}

func (r *CircuitBreakerItemRepository) Upsert(ctx context.Context, record ItemRecord) error {
	if r.cb == nil {
		return r.repo.Upsert(ctx, record)
	}

	_, err := r.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return nil, r.repo.Upsert(ctx, record)
	})
	return wrapBreakerErr(r.cb, "item-store", err)
}

func (r *CircuitBreakerItemRepository) ListByCustomer(ctx context.Context, customerID int) ([]ItemRecord, error) {
	if r.cb == nil {
		return r.repo.ListByCustomer(ctx, customerID)
	}

	result, err := r.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return r.repo.ListByCustomer(ctx, customerID)
	})
	if err != nil {
		return nil, wrapBreakerErr(r.cb, "item-store", err)
	}

	records, ok := result.([]ItemRecord)
	if !ok {
		return nil, fmt.Errorf("repository returned invalid result type")
	}
	return records, nil
}

type CircuitBreakerQuoteRepository struct {
	repo QuoteRepository
	cb   *circuitbreaker.Wrapper
}

func NewCircuitBreakerQuoteRepository(repo QuoteRepository, cfg config.CircuitBreakerConfig) *CircuitBreakerQuoteRepository {
	return &CircuitBreakerQuoteRepository{
		repo: repo,
		cb:   newWrapper("quote-store", cfg),
	}
}

func (r *CircuitBreakerQuoteRepository) Upsert(ctx context.Context, record QuoteRecord) error {
	if r.cb == nil {
		return r.repo.Upsert(ctx, record)
	}

	_, err := r.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return nil, r.repo.Upsert(ctx, record)
	})
	return wrapBreakerErr(r.cb, "quote-store", err)
}

func (r *CircuitBreakerQuoteRepository) List(ctx context.Context) ([]QuoteRecord, error) {
	return r.list(ctx, func() ([]QuoteRecord, error) {
		return r.repo.List(ctx)
	})
}

func (r *CircuitBreakerQuoteRepository) ListByName(ctx context.Context, name string) ([]QuoteRecord, error) {
	return r.list(ctx, func() ([]QuoteRecord, error) {
		return r.repo.ListByName(ctx, name)
	})
}

func (r *CircuitBreakerQuoteRepository) list(ctx context.Context, fn func() ([]QuoteRecord, error)) ([]QuoteRecord, error) {
	if r.cb == nil {
		return fn()
	}

	result, err := r.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, wrapBreakerErr(r.cb, "quote-store", err)
	}

	records, ok := result.([]QuoteRecord)
	if !ok {
		return nil, fmt.Errorf("repository returned invalid result type")
	}
	return records, nil
}

func newWrapper(name string, cfg config.CircuitBreakerConfig) *circuitbreaker.Wrapper {
	if !cfg.Enabled {
		return nil
	}

	cbConfig := circuitbreaker.DefaultConfig(name)
	if cfg.MaxRequests > 0 {
		cbConfig.MaxRequests = cfg.MaxRequests
	}
	if cfg.Interval > 0 {
		cbConfig.Interval = cfg.Interval
	}
	if cfg.Timeout > 0 {
		cbConfig.Timeout = cfg.Timeout
	}
	if cfg.FailureRatio > 0 && cfg.MinRequests > 0 {
		cbConfig.ReadyToTrip = func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		}
	}

	return circuitbreaker.NewWrapper(cbConfig)
}

func wrapBreakerErr(cb *circuitbreaker.Wrapper, name string, err error) error {
	if err == nil {
		return nil
	}
	if cb.IsOpen() {
		return fmt.Errorf("circuit breaker is open for %s: %w", name, err)
	}
	return err
}
