package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	DefaultItemsTopic         = "item_ingestion"
	DefaultQuotesTopic        = "quote_requests"
	DefaultNotificationsTopic = "quote_notifications"
)

const (
	PipelineItems  = "items"
	PipelineQuotes = "quotes"
)

const (
	ProcessedKeyPrefix = "processed:"
)

const (
	DefaultMongoDBName = "intake"
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultProcessedTTL = 24 * time.Hour
)

const (
	MinCreditScore = 400
	MaxCreditScore = 850
)

const (
	// Premium bounds of the placeholder rater, half-open: [min, max).
	MinMonthlyPremium = 60
	MaxMonthlyPremium = 150
)

const (
	OnRedisErrorProcess = "process"
	OnRedisErrorSkip    = "skip"
)

const (
	StoreBackendMongoDB  = "mongodb"
	StoreBackendPostgres = "postgres"
)
