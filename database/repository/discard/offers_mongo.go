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

func (r *MongoDiscardRepo) CreateOffer(ctx context.Context, o *models.Offer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.offerColl.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

func (r *MongoDiscardRepo) GetOffer(ctx context.Context, id string) (*models.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var o models.Offer
	if err := r.offerColl.FindOne(ctx, bson.M{"id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch offer with id %s: %w", id, err)
	}
	return &o, nil
}

func (r *MongoDiscardRepo) ListOffers(ctx context.Context, filter models.OfferFilter) ([]models.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.DiscardID != "" {
		query["discardId"] = filter.DiscardID
	}
	if filter.CollectorID != "" {
		query["collectorId"] = filter.CollectorID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.offerColl.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer cursor.Close(ctx)

	offers := []models.Offer{}
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %w", err)
	}
	return offers, nil
}

func (r *MongoDiscardRepo) SaveOffer(ctx context.Context, o *models.Offer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"id": o.ID, "version": o.Version}
	update := bson.M{"$set": bson.M{
		"status":       o.Status,
		"acceptedSlot": o.AcceptedSlot,
		"editedAt":     now,
		"version":      o.Version + 1,
	}}
	res, err := r.offerColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update offer with id %s: %w", o.ID, asStaleWrite(err))
	}
	if res.MatchedCount == 0 {
		return repository.ErrStaleWrite
	}
	o.Version++
	o.EditedAt = now
	return nil
}
