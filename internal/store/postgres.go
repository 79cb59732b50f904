package store

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresItemRepository struct {
	db *sql.DB
}

func NewPostgresItemRepository(db *sql.DB) *PostgresItemRepository {
	return &PostgresItemRepository{db: db}
}

func (r *PostgresItemRepository) Upsert(ctx context.Context, record ItemRecord) error {
	query := `
		INSERT INTO items (id, customer_id, item_data, contains_hello_world, is_palindrome, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET customer_id = EXCLUDED.customer_id,
		    item_data = EXCLUDED.item_data,
		    contains_hello_world = EXCLUDED.contains_hello_world,
		    is_palindrome = EXCLUDED.is_palindrome
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.CustomerID, record.ItemData,
		record.ContainsHelloWorld, record.IsPalindrome, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert item record %s: %w", record.ID, err)
	}

	return nil
}

func (r *PostgresItemRepository) ListByCustomer(ctx context.Context, customerID int) ([]ItemRecord, error) {
	query := `
		SELECT id, customer_id, item_data, contains_hello_world, is_palindrome, created_at
		FROM items
		WHERE customer_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list item records: %w", err)
	}
	defer rows.Close()

	var records []ItemRecord
	for rows.Next() {
		var record ItemRecord
		if err := rows.Scan(
			&record.ID, &record.CustomerID, &record.ItemData,
			&record.ContainsHelloWorld, &record.IsPalindrome, &record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

type PostgresQuoteRepository struct {
	db *sql.DB
}

func NewPostgresQuoteRepository(db *sql.DB) *PostgresQuoteRepository {
	return &PostgresQuoteRepository{db: db}
}

func (r *PostgresQuoteRepository) Upsert(ctx context.Context, record QuoteRecord) error {
	query := `
		INSERT INTO quotes (id, name, email, car_type, credit_score_estimate, monthly_premium, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    email = EXCLUDED.email,
		    car_type = EXCLUDED.car_type,
		    credit_score_estimate = EXCLUDED.credit_score_estimate,
		    monthly_premium = EXCLUDED.monthly_premium
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.Name, record.Email, record.CarType,
		record.CreditScoreEstimate, record.MonthlyPremium, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert quote record %s: %w", record.ID, err)
	}

	return nil
}

func (r *PostgresQuoteRepository) List(ctx context.Context) ([]QuoteRecord, error) {
	query := `
		SELECT id, name, email, car_type, credit_score_estimate, monthly_premium, created_at
		FROM quotes
	`
	return r.query(ctx, query)
}

func (r *PostgresQuoteRepository) ListByName(ctx context.Context, name string) ([]QuoteRecord, error) {
	query := `
		SELECT id, name, email, car_type, credit_score_estimate, monthly_premium, created_at
		FROM quotes
		WHERE name = $1
	`
	return r.query(ctx, query, name)
}

func (r *PostgresQuoteRepository) query(ctx context.Context, query string, args ...interface{}) ([]QuoteRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quote records: %w", err)
	}
	defer rows.Close()

	var records []QuoteRecord
	for rows.Next() {
		var record QuoteRecord
		if err := rows.Scan(
			&record.ID, &record.Name, &record.Email, &record.CarType,
			&record.CreditScoreEstimate, &record.MonthlyPremium, &record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quote record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
