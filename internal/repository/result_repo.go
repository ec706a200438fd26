package repository

import (
	"context"
	"log"
	"sheetgrader/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResultRepo archives every graded result in MongoDB
type ResultRepo interface {
	Save(ctx context.Context, owner string, result *model.GradedResult) error
	List(ctx context.Context, owner, studentID string, limit int64) ([]*model.GradedResult, error)
	Get(ctx context.Context, owner, id string) (*model.GradedResult, error)
	EnsureIndexes(ctx context.Context)
}

type archivedResult struct {
	Owner              string `bson:"owner"`
	model.GradedResult `bson:",inline"`
}

type resultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a new result repository
func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		collection: db.Collection("graded_results"),
	}
}

func (r *resultRepo) EnsureIndexes(ctx context.Context) {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "studentId", Value: 1}}},
	})
	if err != nil {
		log.Printf("Warning: failed to create index on %s: %v", r.collection.Name(), err)
		return
	}
	log.Println("Result archive indexes ensured")
}

func (r *resultRepo) Save(ctx context.Context, owner string, result *model.GradedResult) error {
	_, err := r.collection.InsertOne(ctx, archivedResult{Owner: owner, GradedResult: *result})
	return err
}

func (r *resultRepo) List(ctx context.Context, owner, studentID string, limit int64) ([]*model.GradedResult, error) {
	filter := bson.M{"owner": owner}
	if studentID != "" {
		filter["studentId"] = studentID
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []archivedResult
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	results := make([]*model.GradedResult, len(docs))
	for i := range docs {
		results[i] = &docs[i].GradedResult
	}
	return results, nil
}

func (r *resultRepo) Get(ctx context.Context, owner, id string) (*model.GradedResult, error) {
	var doc archivedResult
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.GradedResult, nil
}
