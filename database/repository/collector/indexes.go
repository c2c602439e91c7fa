package collectorRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoCollectorRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	collectorIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "acceptedLines", Value: 1}, {Key: "collectionType", Value: 1}}},
	}
	if _, err := r.collectorColl.Indexes().CreateMany(ctx, collectorIdx); err != nil {
		return fmt.Errorf("failed to create collector indexes: %w", err)
	}

	pointIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "collectorId", Value: 1}, {Key: "isActive", Value: 1}}},
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "acceptedLines", Value: 1}}},
	}
	if _, err := r.pointColl.Indexes().CreateMany(ctx, pointIdx); err != nil {
		return fmt.Errorf("failed to create collection point indexes: %w", err)
	}
	return nil
}
