package store

import (
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"intake/internal/config"
	"intake/internal/constants"
)

// Repositories bundles the per-pipeline repositories for one backend.
type Repositories struct {
	Items  ItemRepository
	Quotes QuoteRepository
}

func NewRepositories(cfg config.StoreConfig, db *sql.DB, mongoDB *mongo.Database) (*Repositories, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = constants.StoreBackendMongoDB
	}

	switch backend {
	case constants.StoreBackendMongoDB:
		if mongoDB == nil {
			return nil, fmt.Errorf("store backend is mongodb but no mongodb connection is configured")
		}
		return &Repositories{
			Items:  NewMongoItemRepository(mongoDB),
			Quotes: NewMongoQuoteRepository(mongoDB),
		}, nil
	case constants.StoreBackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("store backend is postgres but no postgres connection is configured")
		}
		return &Repositories{
			Items:  NewPostgresItemRepository(db),
			Quotes: NewPostgresQuoteRepository(db),
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}
