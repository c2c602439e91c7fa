package discardRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates indexes for the discard and offer queries.
func (r *MongoDiscardRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	discardIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// pending pickup listing
		{Keys: bson.D{{Key: "mode", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "createdAt", Value: 1}}},
	}
	if _, err := r.discardColl.Indexes().CreateMany(ctx, discardIdx); err != nil {
		return fmt.Errorf("failed to create discard indexes: %w", err)
	}

	offerIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "discardId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "collectorId", Value: 1}}},
	}
	if _, err := r.offerColl.Indexes().CreateMany(ctx, offerIdx); err != nil {
		return fmt.Errorf("failed to create offer indexes: %w", err)
	}
	return nil
}
