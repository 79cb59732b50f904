package processing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake/internal/config"
	"intake/internal/logger"
	"intake/internal/store"
	apperrors "intake/pkg/errors"
	"intake/pkg/models"
)

type fakeItemRepo struct {
	records   map[string]store.ItemRecord
	upsertErr error
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{records: make(map[string]store.ItemRecord)}
}

func (f *fakeItemRepo) Upsert(_ context.Context, record store.ItemRecord) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakeItemRepo) ListByCustomer(_ context.Context, customerID int) ([]store.ItemRecord, error) {
	var out []store.ItemRecord
	for _, r := range f.records {
		if r.CustomerID == customerID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeQuoteRepo struct {
	records   map[string]store.QuoteRecord
	upsertErr error
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{records: make(map[string]store.QuoteRecord)}
}

func (f *fakeQuoteRepo) Upsert(_ context.Context, record store.QuoteRecord) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakeQuoteRepo) List(_ context.Context) ([]store.QuoteRecord, error) {
	var out []store.QuoteRecord
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeQuoteRepo) ListByName(_ context.Context, name string) ([]store.QuoteRecord, error) {
	var out []store.QuoteRecord
	for _, r := range f.records {
		if r.Name == name {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeKeyRepo struct {
	claimed  map[string]bool
	setNXErr error
}

func newFakeKeyRepo() *fakeKeyRepo {
	return &fakeKeyRepo{claimed: make(map[string]bool)}
}

func (f *fakeKeyRepo) SetNX(_ context.Context, key string, _ interface{}, _ time.Duration) (bool, error) {
	if f.setNXErr != nil {
		return false, f.setNXErr
	}
	if f.claimed[key] {
		return false, nil
	}
	f.claimed[key] = true
	return true, nil
}

func (f *fakeKeyRepo) Delete(_ context.Context, key string) error {
	delete(f.claimed, key)
	return nil
}

type fakeNotifier struct {
	notified []string
	err      error
}

func (f *fakeNotifier) QuoteProcessed(_ context.Context, quoteID string) error {
	if f.err != nil {
		return f.err
	}
	f.notified = append(f.notified, quoteID)
	return nil
}

type fixedRater struct{ premium int }

func (r fixedRater) MonthlyPremium(_ models.QuoteMessage) int { return r.premium }

func disabledGuard() *Guard {
	return NewGuard(newFakeKeyRepo(), config.IdempotencyConfig{Enabled: false}, logger.NopLogger())
}

func enabledGuard(repo KeyRepository) *Guard {
	return NewGuard(repo, config.IdempotencyConfig{Enabled: true, TTLSeconds: 60}, logger.NopLogger())
}

func itemEnvelope(t *testing.T, customerID int, itemData string) models.MessageEnvelope {
	t.Helper()
	env, err := models.NewEnvelope(models.SourceIngestionAPI, models.ItemMessage{
		CustomerID: customerID,
		ItemData:   itemData,
	})
	require.NoError(t, err)
	return env
}

func quoteEnvelope(t *testing.T, quote models.QuoteMessage) models.MessageEnvelope {
	t.Helper()
	env, err := models.NewEnvelope(models.SourceIngestionAPI, quote)
	require.NoError(t, err)
	return env
}

func TestItemProcessorDerivesFields(t *testing.T) {
	repo := newFakeItemRepo()
	proc := NewItemProcessor(repo, disabledGuard(), logger.NopLogger())

	env := itemEnvelope(t, 5, "hello world")
	require.NoError(t, proc.Handle(context.Background(), env))

	record, ok := repo.records[env.ID]
	require.True(t, ok)
	assert.Equal(t, 5, record.CustomerID)
	assert.Equal(t, "hello world", record.ItemData)
	assert.True(t, record.ContainsHelloWorld)
	assert.False(t, record.IsPalindrome)
}

func TestItemProcessorPalindrome(t *testing.T) {
	repo := newFakeItemRepo()
	proc := NewItemProcessor(repo, disabledGuard(), logger.NopLogger())

	env := itemEnvelope(t, 7, "racecar")
	require.NoError(t, proc.Handle(context.Background(), env))

	record := repo.records[env.ID]
	assert.False(t, record.ContainsHelloWorld)
	assert.True(t, record.IsPalindrome)
}

func TestItemProcessorRedeliveryRewritesSameRecord(t *testing.T) {
	repo := newFakeItemRepo()
	proc := NewItemProcessor(repo, disabledGuard(), logger.NopLogger())

	env := itemEnvelope(t, 9, "abba")
	require.NoError(t, proc.Handle(context.Background(), env))
	require.NoError(t, proc.Handle(context.Background(), env))

	assert.Len(t, repo.records, 1)
}

func TestItemProcessorGuardSkipsDuplicate(t *testing.T) {
	repo := newFakeItemRepo()
	keys := newFakeKeyRepo()
	proc := NewItemProcessor(repo, enabledGuard(keys), logger.NopLogger())

	env := itemEnvelope(t, 1, "data")
	require.NoError(t, proc.Handle(context.Background(), env))
	require.NoError(t, proc.Handle(context.Background(), env))

	assert.Len(t, repo.records, 1)
}

func TestItemProcessorReleasesClaimOnStoreFailure(t *testing.T) {
	repo := newFakeItemRepo()
	repo.upsertErr = errors.New("store down")
	keys := newFakeKeyRepo()
	proc := NewItemProcessor(repo, enabledGuard(keys), logger.NopLogger())

	env := itemEnvelope(t, 1, "data")
	require.Error(t, proc.Handle(context.Background(), env))

	// The claim must be gone so the redelivery can be processed.
	repo.upsertErr = nil
	require.NoError(t, proc.Handle(context.Background(), env))
	assert.Len(t, repo.records, 1)
}

func TestItemProcessorMalformedPayloadIsFatal(t *testing.T) {
	repo := newFakeItemRepo()
	proc := NewItemProcessor(repo, disabledGuard(), logger.NopLogger())

	env := models.MessageEnvelope{
		ID:      "bad-envelope",
		Source:  models.SourceIngestionAPI,
		Payload: []byte(`{"customerId": "not a number"}`),
	}

	err := proc.Handle(context.Background(), env)
	require.Error(t, err)

	var fatalErr apperrors.FatalError
	require.ErrorAs(t, err, &fatalErr)
	assert.True(t, fatalErr.IsFatal())
	assert.Empty(t, repo.records)
}

func TestItemProcessorMalformedPayloadLeavesNoClaim(t *testing.T) {
	repo := newFakeItemRepo()
	keys := newFakeKeyRepo()
	proc := NewItemProcessor(repo, enabledGuard(keys), logger.NopLogger())

	env := models.MessageEnvelope{
		ID:      "bad-envelope",
		Source:  models.SourceIngestionAPI,
		Payload: []byte(`{"customerId": "not a number"}`),
	}

	// A redelivery of a malformed envelope must fail the same way, not be
	// mistaken for a duplicate of a processed one.
	var fatalErr apperrors.FatalError
	require.ErrorAs(t, proc.Handle(context.Background(), env), &fatalErr)
	require.ErrorAs(t, proc.Handle(context.Background(), env), &fatalErr)

	assert.Empty(t, keys.claimed)
	assert.Empty(t, repo.records)
}

func TestQuoteProcessorStoresAndNotifies(t *testing.T) {
	repo := newFakeQuoteRepo()
	notifier := &fakeNotifier{}
	proc := NewQuoteProcessor(repo, fixedRater{premium: 99}, disabledGuard(), notifier, logger.NopLogger())

	env := quoteEnvelope(t, models.QuoteMessage{
		Name:                "Ada Lovelace",
		Email:               "ada@example.com",
		CarType:             "hatchback",
		CreditScoreEstimate: 720,
	})
	require.NoError(t, proc.Handle(context.Background(), env))

	record, ok := repo.records[env.ID]
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", record.Name)
	assert.Equal(t, 99, record.MonthlyPremium)
	assert.Equal(t, []string{env.ID}, notifier.notified)
}

func TestQuoteProcessorNoNotificationWhenStoreFails(t *testing.T) {
	repo := newFakeQuoteRepo()
	repo.upsertErr = errors.New("store down")
	notifier := &fakeNotifier{}
	proc := NewQuoteProcessor(repo, fixedRater{premium: 80}, disabledGuard(), notifier, logger.NopLogger())

	env := quoteEnvelope(t, models.QuoteMessage{Name: "Ada"})
	require.Error(t, proc.Handle(context.Background(), env))
	assert.Empty(t, notifier.notified)
}

func TestQuoteProcessorNotifierFailureDoesNotFailDelivery(t *testing.T) {
	repo := newFakeQuoteRepo()
	notifier := &fakeNotifier{err: errors.New("broker down")}
	proc := NewQuoteProcessor(repo, fixedRater{premium: 80}, disabledGuard(), notifier, logger.NopLogger())

	env := quoteEnvelope(t, models.QuoteMessage{Name: "Ada"})
	require.NoError(t, proc.Handle(context.Background(), env))
	assert.Len(t, repo.records, 1)
}

func TestGuardFallbackProcessOnRedisError(t *testing.T) {
	keys := newFakeKeyRepo()
	keys.setNXErr = errors.New("redis unreachable")
	guard := NewGuard(keys, config.IdempotencyConfig{
		Enabled:      true,
		TTLSeconds:   60,
		OnRedisError: "process",
	}, logger.NopLogger())

	proceed, err := guard.Claim(context.Background(), "env-1")
	require.NoError(t, err)
	assert.True(t, proceed)
}

func TestGuardFallbackSkipOnRedisError(t *testing.T) {
	keys := newFakeKeyRepo()
	keys.setNXErr = errors.New("redis unreachable")
	guard := NewGuard(keys, config.IdempotencyConfig{
		Enabled:      true,
		TTLSeconds:   60,
		OnRedisError: "skip",
	}, logger.NopLogger())

	proceed, err := guard.Claim(context.Background(), "env-1")
	require.Error(t, err)
	assert.False(t, proceed)
}
