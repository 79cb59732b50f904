package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake/internal/logger"
	"intake/pkg/models"
)

type publishedMessage struct {
	topic    string
	envelope models.MessageEnvelope
}

type fakeProducer struct {
	published  []publishedMessage
	publishErr error
}

func (f *fakeProducer) Publish(_ context.Context, topic string, msg models.MessageEnvelope) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, publishedMessage{topic: topic, envelope: msg})
	return nil
}

func (f *fakeProducer) PublishRaw(_ context.Context, _ string, _, _ []byte) error { return nil }

func (f *fakeProducer) Close() error { return nil }

func setupRouter(producer *fakeProducer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	svc := NewService(producer, "item_ingestion", "quote_requests", logger.NopLogger())
	NewHandler(svc, logger.NopLogger()).RegisterRoutes(router)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIngestItemAccepted(t *testing.T) {
	producer := &fakeProducer{}
	router := setupRouter(producer)

	w := postJSON(router, "/api/v1/items", `{"customerId": 5, "itemData": "hello world"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "5")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	require.Len(t, producer.published, 1)
	assert.Equal(t, "item_ingestion", producer.published[0].topic)

	var item models.ItemMessage
	require.NoError(t, producer.published[0].envelope.DecodePayload(&item))
	assert.Equal(t, 5, item.CustomerID)
	assert.Equal(t, "hello world", item.ItemData)
	assert.NotEmpty(t, producer.published[0].envelope.ID)
}

func TestIngestItemInvalidCustomerID(t *testing.T) {
	producer := &fakeProducer{}
	router := setupRouter(producer)

	w := postJSON(router, "/api/v1/items", `{"customerId": 0, "itemData": "x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, producer.published)
}

func TestIngestItemMalformedBody(t *testing.T) {
	producer := &fakeProducer{}
	router := setupRouter(producer)

	w := postJSON(router, "/api/v1/items", `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, producer.published)
}

func TestIngestItemBrokerUnavailable(t *testing.T) {
	producer := &fakeProducer{publishErr: errors.New("broker down")}
	router := setupRouter(producer)

	w := postJSON(router, "/api/v1/items", `{"customerId": 5, "itemData": "x"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestQuoteAccepted(t *testing.T) {
	producer := &fakeProducer{}
	router := setupRouter(producer)

	w := postJSON(router, "/api/v1/quotes", `{"name": "Ada Lovelace", "email": "ada@example.com", "carType": "hatchback", "creditScoreEstimate": 720}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ada Lovelace")

	require.Len(t, producer.published, 1)
	assert.Equal(t, "quote_requests", producer.published[0].topic)

	var quote models.QuoteMessage
	require.NoError(t, producer.published[0].envelope.DecodePayload(&quote))
	assert.Equal(t, 720, quote.CreditScoreEstimate)
}

func TestRequestQuoteValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email": "a@b.com", "carType": "suv", "creditScoreEstimate": 700}`},
		{"missing email", `{"name": "Ada", "carType": "suv", "creditScoreEstimate": 700}`},
		{"missing car type", `{"name": "Ada", "email": "a@b.com", "creditScoreEstimate": 700}`},
		{"credit score too low", `{"name": "Ada", "email": "a@b.com", "carType": "suv", "creditScoreEstimate": 399}`},
		{"credit score too high", `{"name": "Ada", "email": "a@b.com", "carType": "suv", "creditScoreEstimate": 851}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			producer := &fakeProducer{}
			router := setupRouter(producer)

			w := postJSON(router, "/api/v1/quotes", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, producer.published)
		})
	}
}
