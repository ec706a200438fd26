package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StateRepo is the MongoDB-backed durable mirror of workspace state
type StateRepo interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

type stateDoc struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"` // JSON snapshot
	UpdatedAt time.Time `bson:"updatedAt"`
}

type stateRepo struct {
	collection *mongo.Collection
}

// NewStateRepo creates a new state repository
func NewStateRepo(db *mongo.Database) StateRepo {
	return &stateRepo{
		collection: db.Collection("grader_state"),
	}
}

func (r *stateRepo) Load(ctx context.Context, key string) ([]byte, error) {
	var doc stateDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc.Value), nil
}

func (r *stateRepo) Save(ctx context.Context, key string, data []byte) error {
	doc := stateDoc{Key: key, Value: string(data), UpdatedAt: time.Now()}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts)
	return err
}
