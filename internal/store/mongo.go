package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	itemsCollection  = "items"
	quotesCollection = "quotes"
)

type MongoItemRepository struct {
	collection *mongo.Collection
}

func NewMongoItemRepository(db *mongo.Database) *MongoItemRepository {
	return &MongoItemRepository{
		collection: db.Collection(itemsCollection),
	}
}

func (r *MongoItemRepository) Upsert(ctx context.Context, record ItemRecord) error {
	filter := bson.M{"_id": record.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, record, opts); err != nil {
		return fmt.Errorf("failed to upsert item record %s: %w", record.ID, err)
	}

	return nil
}

func (r *MongoItemRepository) ListByCustomer(ctx context.Context, customerID int) ([]ItemRecord, error) {
	filter := bson.M{"customer_id": customerID}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find item records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []ItemRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode item records: %w", err)
	}

	return records, nil
}

type MongoQuoteRepository struct {
	collection *mongo.Collection
}

func NewMongoQuoteRepository(db *mongo.Database) *MongoQuoteRepository {
	return &MongoQuoteRepository{
		collection: db.Collection(quotesCollection),
	}
}

func (r *MongoQuoteRepository) Upsert(ctx context.Context, record QuoteRecord) error {
	filter := bson.M{"_id": record.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, record, opts); err != nil {
		return fmt.Errorf("failed to upsert quote record %s: %w", record.ID, err)
	}

	return nil
}

func (r *MongoQuoteRepository) List(ctx context.Context) ([]QuoteRecord, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoQuoteRepository) ListByName(ctx context.Context, name string) ([]QuoteRecord, error) {
	return r.find(ctx, bson.M{"name": name})
}

func (r *MongoQuoteRepository) find(ctx context.Context, filter bson.M) ([]QuoteRecord, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find quote records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []QuoteRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode quote records: %w", err)
	}

	return records, nil
}

// EnsureMongoIndexes creates the lookup indexes for the read path. Index
// creation is idempotent, so this runs on every service start.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	itemIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "customer_id", Value: 1}},
			Options: options.Index().SetName("idx_items_customer_id"),
		},
	}
	if _, err := db.Collection(itemsCollection).Indexes().CreateMany(ctx, itemIndexes); err != nil {
		return fmt.Errorf("failed to create item indexes: %w", err)
	}

	quoteIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_quotes_name"),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_quotes_name_email"),
		},
	}
	if _, err := db.Collection(quotesCollection).Indexes().CreateMany(ctx, quoteIndexes); err != nil {
		return fmt.Errorf("failed to create quote indexes: %w", err)
	}

	return nil
}
