package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake/internal/logger"
	"intake/internal/store"
)

type fakeItemRepo struct {
	records []store.ItemRecord
	err     error
}

func (f *fakeItemRepo) Upsert(_ context.Context, _ store.ItemRecord) error { return nil }

func (f *fakeItemRepo) ListByCustomer(_ context.Context, customerID int) ([]store.ItemRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []store.ItemRecord
	for _, r := range f.records {
		if r.CustomerID == customerID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeQuoteRepo struct {
	records []store.QuoteRecord
	err     error
}

func (f *fakeQuoteRepo) Upsert(_ context.Context, _ store.QuoteRecord) error { return nil }

func (f *fakeQuoteRepo) List(_ context.Context) ([]store.QuoteRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeQuoteRepo) ListByName(_ context.Context, name string) ([]store.QuoteRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []store.QuoteRecord
	for _, r := range f.records {
		if r.Name == name {
			out = append(out, r)
		}
	}
	return out, nil
}

func setupRouter(items *fakeItemRepo, quotes *fakeQuoteRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(store.Repositories{Items: items, Quotes: quotes}, logger.NopLogger()).RegisterRoutes(router)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListItemsByCustomer(t *testing.T) {
	items := &fakeItemRepo{records: []store.ItemRecord{
		{ID: "a", CustomerID: 5, ItemData: "hello world", ContainsHelloWorld: true},
		{ID: "b", CustomerID: 6, ItemData: "other"},
	}}
	router := setupRouter(items, &fakeQuoteRepo{})

	w := get(router, "/api/v1/items/5")
	assert.Equal(t, http.StatusOK, w.Code)

	var got []store.ItemRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.True(t, got[0].ContainsHelloWorld)
}

func TestListItemsNoMatchesReturnsEmptyList(t *testing.T) {
	router := setupRouter(&fakeItemRepo{}, &fakeQuoteRepo{})

	w := get(router, "/api/v1/items/42")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestListItemsInvalidCustomerID(t *testing.T) {
	router := setupRouter(&fakeItemRepo{}, &fakeQuoteRepo{})

	for _, path := range []string{"/api/v1/items/abc", "/api/v1/items/0", "/api/v1/items/-3"} {
		w := get(router, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestListItemsStoreError(t *testing.T) {
	items := &fakeItemRepo{err: errors.New("store down")}
	router := setupRouter(items, &fakeQuoteRepo{})

	w := get(router, "/api/v1/items/5")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListQuotes(t *testing.T) {
	quotes := &fakeQuoteRepo{records: []store.QuoteRecord{
		{ID: "q1", Name: "Ada", MonthlyPremium: 80},
		{ID: "q2", Name: "Grace", MonthlyPremium: 120},
	}}
	router := setupRouter(&fakeItemRepo{}, quotes)

	w := get(router, "/api/v1/quotes")
	assert.Equal(t, http.StatusOK, w.Code)

	var got []store.QuoteRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestListQuotesFilteredByName(t *testing.T) {
	quotes := &fakeQuoteRepo{records: []store.QuoteRecord{
		{ID: "q1", Name: "Ada"},
		{ID: "q2", Name: "Grace"},
	}}
	router := setupRouter(&fakeItemRepo{}, quotes)

	w := get(router, "/api/v1/quotes?name=Ada")
	assert.Equal(t, http.StatusOK, w.Code)

	var got []store.QuoteRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "q1", got[0].ID)
}
