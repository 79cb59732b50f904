package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake/internal/store"
)

func newItemRecord(customerID int, itemData string) store.ItemRecord {
	return store.ItemRecord{
		ID:                 uuid.New().String(),
		CustomerID:         customerID,
		ItemData:           itemData,
		ContainsHelloWorld: false,
		IsPalindrome:       false,
		CreatedAt:          time.Now().UTC().Truncate(time.Millisecond),
	}
}

func newQuoteRecord(name string, premium int) store.QuoteRecord {
	return store.QuoteRecord{
		ID:                  uuid.New().String(),
		Name:                name,
		Email:               "test@example.com",
		CarType:             "hatchback",
		CreditScoreEstimate: 700,
		MonthlyPremium:      premium,
		CreatedAt:           time.Now().UTC().Truncate(time.Millisecond),
	}
}

func runItemRepositoryTests(t *testing.T, repo store.ItemRepository) {
	ctx := context.Background()

	t.Run("upsert and list by customer", func(t *testing.T) {
		record := newItemRecord(100, "hello world")
		record.ContainsHelloWorld = true
		require.NoError(t, repo.Upsert(ctx, record))

		other := newItemRecord(200, "other data")
		require.NoError(t, repo.Upsert(ctx, other))

		records, err := repo.ListByCustomer(ctx, 100)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, record.ID, records[0].ID)
		assert.True(t, records[0].ContainsHelloWorld)
	})

	t.Run("upsert same id replaces the record", func(t *testing.T) {
		record := newItemRecord(300, "first")
		require.NoError(t, repo.Upsert(ctx, record))

		record.ItemData = "second"
		record.IsPalindrome = true
		require.NoError(t, repo.Upsert(ctx, record))

		records, err := repo.ListByCustomer(ctx, 300)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "second", records[0].ItemData)
		assert.True(t, records[0].IsPalindrome)
	})

	t.Run("no records for unknown customer", func(t *testing.T) {
		records, err := repo.ListByCustomer(ctx, 999999)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func runQuoteRepositoryTests(t *testing.T, repo store.QuoteRepository) {
	ctx := context.Background()

	t.Run("upsert and list by name", func(t *testing.T) {
		record := newQuoteRecord("Integration Ada", 80)
		require.NoError(t, repo.Upsert(ctx, record))

		other := newQuoteRecord("Integration Grace", 120)
		require.NoError(t, repo.Upsert(ctx, other))

		records, err := repo.ListByName(ctx, "Integration Ada")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, record.ID, records[0].ID)
		assert.Equal(t, 80, records[0].MonthlyPremium)
	})

	t.Run("upsert same id replaces the record", func(t *testing.T) {
		record := newQuoteRecord("Integration Replace", 70)
		require.NoError(t, repo.Upsert(ctx, record))

		record.MonthlyPremium = 140
		require.NoError(t, repo.Upsert(ctx, record))

		records, err := repo.ListByName(ctx, "Integration Replace")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 140, records[0].MonthlyPremium)
	})

	t.Run("list returns all records", func(t *testing.T) {
		records, err := repo.List(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(records), 3)
	})
}

func TestMongoRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	infra := SetupTestInfra(t, InfraOptions{Mongo: true})

	runItemRepositoryTests(t, store.NewMongoItemRepository(infra.MongoDB))
	runQuoteRepositoryTests(t, store.NewMongoQuoteRepository(infra.MongoDB))
}

func TestPostgresRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	infra := SetupTestInfra(t, InfraOptions{Postgres: true})

	runItemRepositoryTests(t, store.NewPostgresItemRepository(infra.PostgresDB))
	runQuoteRepositoryTests(t, store.NewPostgresQuoteRepository(infra.PostgresDB))
}
