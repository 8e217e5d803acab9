// AngelaMos | 2026
// mongo_repository.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/borka-sandviken/borka-api/internal/core"
)

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(ctx context.Context, db *mongo.Database) (Repository, error) {
	coll := db.Collection("sessions")

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "token_hash", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("create session indexes: %w", err)
	}

	return &mongoRepository{coll: coll}, nil
}

func (r *mongoRepository) Create(ctx context.Context, session *Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create session: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *mongoRepository) FindByHash(
	ctx context.Context,
	tokenHash string,
) (*Session, error) {
	var session Session
	err := r.coll.FindOne(ctx, bson.M{"token_hash": tokenHash}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find session: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	if err := session.Validate(); err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &session, nil
}

func (r *mongoRepository) DeleteByHash(
	ctx context.Context,
	tokenHash string,
) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"token_hash": tokenHash})
	if err != nil {
		return 0, fmt.Errorf("delete session: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *mongoRepository) DeleteAllForUser(
	ctx context.Context,
	userID string,
) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *mongoRepository) CountActive(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"expires_at": bson.M{"$gt": now}})
	if err != nil {
		return 0, fmt.Errorf("count active sessions: %w", err)
	}
	return count, nil
}
