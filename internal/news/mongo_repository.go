// AngelaMos | 2026
// mongo_repository.go

package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/borka-sandviken/borka-api/internal/core"
)

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(ctx context.Context, db *mongo.Database) (Repository, error) {
	coll := db.Collection("news")

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "publish_date", Value: -1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("create news indexes: %w", err)
	}

	return &mongoRepository{coll: coll}, nil
}

func (r *mongoRepository) Create(ctx context.Context, n *News) error {
	if err := n.Validate(); err != nil {
		return fmt.Errorf("create news: %w", err)
	}

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create news: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create news: %w", err)
	}

	return nil
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*News, error) {
	var n News
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get news: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}

	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}

	return &n, nil
}

func (r *mongoRepository) Update(ctx context.Context, n *News) error {
	if err := n.Validate(); err != nil {
		return fmt.Errorf("update news: %w", err)
	}

	update := bson.M{"$set": bson.M{
		"title": n.Title,
		"body":  n.Body,
		"image": n.Image,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": n.ID}, update)
	if err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update news: %w", core.ErrNotFound)
	}

	return nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete news: %w", core.ErrNotFound)
	}

	return nil
}

func (r *mongoRepository) List(ctx context.Context, limit int) ([]News, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "publish_date", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}

	var items []News
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}

	valid := items[:0]
	for _, n := range items {
		if err := n.Validate(); err != nil {
			slog.Warn("skipping invalid news document", "error", err)
			continue
		}
		valid = append(valid, n)
	}

	return valid, nil
}

func (r *mongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count news: %w", err)
	}
	return n, nil
}
