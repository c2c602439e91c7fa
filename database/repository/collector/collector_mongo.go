package collectorRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recicleaqui/database/repository"
	"recicleaqui/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollectorRepo implements CollectorRepository using MongoDB.
type MongoCollectorRepo struct {
	collectorColl *mongo.Collection
	pointColl     *mongo.Collection
}

func NewMongoCollectorRepo(db *mongo.Database) *MongoCollectorRepo {
	return &MongoCollectorRepo{
		collectorColl: db.Collection(repository.CollectorsCollection),
		pointColl:     db.Collection(repository.CollectionPointsCollection),
	}
}

func (r *MongoCollectorRepo) findCollector(ctx context.Context, filter bson.M) (*models.Collector, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var c models.Collector
	if err := r.collectorColl.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch collector: %w", err)
	}
	return &c, nil
}

func (r *MongoCollectorRepo) GetCollector(ctx context.Context, id string) (*models.Collector, error) {
	return r.findCollector(ctx, bson.M{"id": id})
}

func (r *MongoCollectorRepo) GetCollectorByUserID(ctx context.Context, userID string) (*models.Collector, error) {
	return r.findCollector(ctx, bson.M{"userId": userID})
}

func (r *MongoCollectorRepo) ListCollectorsByIDs(ctx context.Context, ids []string) ([]models.Collector, error) {
	if len(ids) == 0 {
		return []models.Collector{}, nil
	}
	return r.findCollectors(ctx, bson.M{"id": bson.M{"$in": ids}})
}

func (r *MongoCollectorRepo) SearchCollectors(ctx context.Context, criteria models.CollectorSearchCriteria) ([]models.Collector, error) {
	filter := bson.M{}
	if criteria.Line != "" {
		filter["acceptedLines"] = criteria.Line
	}
	if criteria.CollectionType != "" {
		filter["collectionType"] = bson.M{"$in": []models.CollectionType{criteria.CollectionType, models.CollectionBoth}}
	}
	return r.findCollectors(ctx, filter)
}

func (r *MongoCollectorRepo) findCollectors(ctx context.Context, filter bson.M) ([]models.Collector, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "companyName", Value: 1}})
	cursor, err := r.collectorColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query collectors: %w", err)
	}
	defer cursor.Close(ctx)

	collectors := []models.Collector{}
	if err := cursor.All(ctx, &collectors); err != nil {
		return nil, fmt.Errorf("failed to decode collectors: %w", err)
	}
	return collectors, nil
}
