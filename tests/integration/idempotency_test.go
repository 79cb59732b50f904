package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake/internal/processing"
)

func TestIdempotencyGuard(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	infra := SetupTestInfra(t, InfraOptions{Redis: true})
	ctx := context.Background()

	guard := processing.NewGuard(
		processing.NewKeyRepository(infra.RedisClient),
		createTestIdempotencyConfig(),
		createTestLogger(),
	)

	t.Run("first claim succeeds, second is rejected", func(t *testing.T) {
		id := uuid.New().String()

		proceed, err := guard.Claim(ctx, id)
		require.NoError(t, err)
		assert.True(t, proceed)

		proceed, err = guard.Claim(ctx, id)
		require.NoError(t, err)
		assert.False(t, proceed)
	})

	t.Run("release makes the id claimable again", func(t *testing.T) {
		id := uuid.New().String()

		proceed, err := guard.Claim(ctx, id)
		require.NoError(t, err)
		require.True(t, proceed)

		guard.Release(ctx, id)

		proceed, err = guard.Claim(ctx, id)
		require.NoError(t, err)
		assert.True(t, proceed)
	})

	t.Run("distinct ids claim independently", func(t *testing.T) {
		a, err := guard.Claim(ctx, uuid.New().String())
		require.NoError(t, err)
		b, err := guard.Claim(ctx, uuid.New().String())
		require.NoError(t, err)
		assert.True(t, a)
		assert.True(t, b)
	})
}
