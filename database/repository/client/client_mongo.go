package clientRepo

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

type MongoClientRepo struct {
	coll *mongo.Collection
}

func NewMongoClientRepo(db *mongo.Database) *MongoClientRepo {
	return &MongoClientRepo{coll: db.Collection(repository.ClientsCollection)}
}

func (r *MongoClientRepo) findOne(ctx context.Context, filter bson.M) (*models.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var c models.Client
	if err := r.coll.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch client: %w", err)
	}
	return &c, nil
}

func (r *MongoClientRepo) GetClient(ctx context.Context, id string) (*models.Client, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoClientRepo) GetClientByUserID(ctx context.Context, userID string) (*models.Client, error) {
	return r.findOne(ctx, bson.M{"userId": userID})
}

func (r *MongoClientRepo) ListClientsByIDs(ctx context.Context, ids []string) ([]models.Client, error) {
	if len(ids) == 0 {
		return []models.Client{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer cursor.Close(ctx)

	clients := []models.Client{}
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, fmt.Errorf("failed to decode clients: %w", err)
	}
	return clients, nil
}

func (r *MongoClientRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, idx); err != nil {
		return fmt.Errorf("failed to create client indexes: %w", err)
	}
	return nil
}
