package store

import "context"

// ItemRepository persists processed item records. Upsert has
// replace-or-insert semantics keyed by record ID, which is what makes
// at-least-once redelivery safe.
type ItemRepository interface {
	Upsert(ctx context.Context, record ItemRecord) error
	ListByCustomer(ctx context.Context, customerID int) ([]ItemRecord, error)
}

// QuoteRepository persists rated quotes.
type QuoteRepository interface {
	Upsert(ctx context.Context, record QuoteRecord) error
	List(ctx context.Context) ([]QuoteRecord, error)
	ListByName(ctx context.Context, name string) ([]QuoteRecord, error)
}
