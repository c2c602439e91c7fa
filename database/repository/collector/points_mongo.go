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

func (r *MongoCollectorRepo) GetCollectionPoint(ctx context.Context, id string) (*models.CollectionPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var p models.CollectionPoint
	if err := r.pointColl.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch collection point with id %s: %w", id, err)
	}
	return &p, nil
}

func (r *MongoCollectorRepo) ListCollectionPointsAcceptingLines(ctx context.Context, lines models.Lines) ([]models.CollectionPointWithCollector, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	match := bson.M{"isActive": true}
	if len(lines) > 0 {
		match["acceptedLines"] = bson.M{"$all": lines.Strings()}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         repository.CollectorsCollection,
			"localField":   "collectorId",
			"foreignField": "id",
			"as":           "collector",
		}}},
		{{Key: "$unwind", Value: "$collector"}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}}}},
	}

	cursor, err := r.pointColl.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate collection points: %w", err)
	}
	defer cursor.Close(ctx)

	points := []models.CollectionPointWithCollector{}
	if err := cursor.All(ctx, &points); err != nil {
		return nil, fmt.Errorf("failed to decode collection points: %w", err)
	}
	return points, nil
}

func (r *MongoCollectorRepo) ListActivePointsByCollectors(ctx context.Context, collectorIDs []string) ([]models.CollectionPoint, error) {
	if len(collectorIDs) == 0 {
		return []models.CollectionPoint{}, nil
	}
	return r.findPoints(ctx, bson.M{"collectorId": bson.M{"$in": collectorIDs}, "isActive": true})
}

func (r *MongoCollectorRepo) ListPointsByCollector(ctx context.Context, collectorID string) ([]models.CollectionPoint, error) {
	return r.findPoints(ctx, bson.M{"collectorId": collectorID})
}

func (r *MongoCollectorRepo) findPoints(ctx context.Context, filter bson.M) ([]models.CollectionPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.pointColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection points: %w", err)
	}
	defer cursor.Close(ctx)

	points := []models.CollectionPoint{}
	if err := cursor.All(ctx, &points); err != nil {
		return nil, fmt.Errorf("failed to decode collection points: %w", err)
	}
	return points, nil
}

func (r *MongoCollectorRepo) CreateCollectionPoint(ctx context.Context, p *models.CollectionPoint) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.pointColl.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create collection point: %w", err)
	}
	return nil
}

func (r *MongoCollectorRepo) SetCollectionPointActive(ctx context.Context, id string, active bool) (*models.CollectionPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"isActive": active, "editedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.CollectionPoint
	if err := r.pointColl.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update collection point with id %s: %w", id, err)
	}
	return &p, nil
}
