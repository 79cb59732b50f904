package models

// ItemMessage is the payload of the generic ingestion pipeline. JSON field
// names match the public API body, so the same shape travels end to end.
type ItemMessage struct {
	CustomerID int    `json:"customerId"`
	ItemData   string `json:"itemData"`
}

// QuoteMessage is the payload of the quote-request pipeline.
type QuoteMessage struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	CarType             string `json:"carType"`
	CreditScoreEstimate int    `json:"creditScoreEstimate"`
}

const (
	SourceIngestionAPI = "ingestion-api"
)
