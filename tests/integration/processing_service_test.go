package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake/internal/processing"
	"intake/internal/store"
	"intake/pkg/models"
)

func TestItemProcessingPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	infra := SetupTestInfra(t, InfraOptions{Mongo: true, Redis: true})
	ctx := context.Background()

	repo := store.NewMongoItemRepository(infra.MongoDB)
	guard := processing.NewGuard(
		processing.NewKeyRepository(infra.RedisClient),
		createTestIdempotencyConfig(),
		createTestLogger(),
	)
	processor := processing.NewItemProcessor(repo, guard, createTestLogger())

	envelope, err := models.NewEnvelope(models.SourceIngestionAPI, models.ItemMessage{
		CustomerID: 42,
		ItemData:   "hello world",
	})
	require.NoError(t, err)

	require.NoError(t, processor.Handle(ctx, envelope))

	records, err := repo.ListByCustomer(ctx, 42)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, envelope.ID, records[0].ID)
	assert.True(t, records[0].ContainsHelloWorld)
	assert.False(t, records[0].IsPalindrome)

	// Redelivery is absorbed by the idempotency guard.
	require.NoError(t, processor.Handle(ctx, envelope))

	records, err = repo.ListByCustomer(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestQuoteProcessingPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	infra := SetupTestInfra(t, InfraOptions{Mongo: true, Redis: true})
	ctx := context.Background()

	repo := store.NewMongoQuoteRepository(infra.MongoDB)
	guard := processing.NewGuard(
		processing.NewKeyRepository(infra.RedisClient),
		createTestIdempotencyConfig(),
		createTestLogger(),
	)
	processor := processing.NewQuoteProcessor(repo, processing.NewRandomRater(nil), guard, nil, createTestLogger())

	envelope, err := models.NewEnvelope(models.SourceIngestionAPI, models.QuoteMessage{
		Name:                "Pipeline Ada",
		Email:               "ada@example.com",
		CarType:             "hatchback",
		CreditScoreEstimate: 720,
	})
	require.NoError(t, err)

	require.NoError(t, processor.Handle(ctx, envelope))

	records, err := repo.ListByName(ctx, "Pipeline Ada")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, envelope.ID, records[0].ID)
	assert.GreaterOrEqual(t, records[0].MonthlyPremium, 60)
	assert.Less(t, records[0].MonthlyPremium, 150)
}
