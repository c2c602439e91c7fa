package discardRepo

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

// MongoDiscardRepo implements DiscardRepository using MongoDB.
type MongoDiscardRepo struct {
	client      *mongo.Client
	discardColl *mongo.Collection
	offerColl   *mongo.Collection
}

// NewMongoDiscardRepo creates a repository over the discards and offers collections of db.
func NewMongoDiscardRepo(db *mongo.Database) *MongoDiscardRepo {
	return &MongoDiscardRepo{
		client:      db.Client(),
		discardColl: db.Collection(repository.DiscardsCollection),
		offerColl:   db.Collection(repository.OffersCollection),
	}
}

func (r *MongoDiscardRepo) CreateDiscard(ctx context.Context, d *models.Discard) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.discardColl.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("failed to create discard: %w", err)
	}
	return nil
}

func (r *MongoDiscardRepo) GetDiscard(ctx context.Context, id string) (*models.Discard, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var d models.Discard
	if err := r.discardColl.FindOne(ctx, bson.M{"id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch discard with id %s: %w", id, err)
	}
	return &d, nil
}

func (r *MongoDiscardRepo) ListDiscards(ctx context.Context, filter models.DiscardFilter) ([]models.Discard, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.ClientID != "" {
		query["clientId"] = filter.ClientID
	}
	if filter.Mode != "" {
		query["mode"] = filter.Mode
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.discardColl.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list discards: %w", err)
	}
	defer cursor.Close(ctx)

	discards := []models.Discard{}
	if err := cursor.All(ctx, &discards); err != nil {
		return nil, fmt.Errorf("failed to decode discards: %w", err)
	}
	return discards, nil
}

func (r *MongoDiscardRepo) SaveDiscard(ctx context.Context, d *models.Discard) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"id": d.ID, "version": d.Version}
	update := bson.M{"$set": bson.M{
		"status":        d.Status,
		"scheduledSlot": d.ScheduledSlot,
		"description":   d.Description,
		"editedAt":      now,
		"version":       d.Version + 1,
	}}
	res, err := r.discardColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update discard with id %s: %w", d.ID, asStaleWrite(err))
	}
	if res.MatchedCount == 0 {
		return repository.ErrStaleWrite
	}
	d.Version++
	d.EditedAt = now
	return nil
}
