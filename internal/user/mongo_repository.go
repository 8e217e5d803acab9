// AngelaMos | 2026
// mongo_repository.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/borka-sandviken/borka-api/internal/core"
)

const collectionName = "users"

var prefKeyPattern = regexp.MustCompile(`^[a-z_]+$`)

type mongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository ensures the unique indexes on user_id and email exist.
func NewMongoRepository(ctx context.Context, db *mongo.Database) (Repository, error) {
	coll := db.Collection(collectionName)

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("create user indexes: %w", err)
	}

	return &mongoRepository{coll: coll}, nil
}

func (r *mongoRepository) Create(ctx context.Context, user *User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, "get user", bson.M{"user_id": id})
}

func (r *mongoRepository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return r.findOne(ctx, "get user by email", bson.M{"email": email})
}

func (r *mongoRepository) findOne(
	ctx context.Context,
	op string,
	filter bson.M,
) (*User, error) {
	var user User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (r *mongoRepository) Update(ctx context.Context, user *User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	user.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"name":                     user.Name,
		"phone":                    user.Phone,
		"picture":                  user.Picture,
		"role":                     user.Role,
		"push_token":               user.PushToken,
		"notification_preferences": user.NotificationPreferences,
		"updated_at":               user.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"user_id": user.ID}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}

	return nil
}

func (r *mongoRepository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	update := bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"user_id": id}, update)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

func (r *mongoRepository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	return r.exists(ctx, "check email exists", bson.M{"email": email})
}

func (r *mongoRepository) ExistsByRole(
	ctx context.Context,
	role string,
) (bool, error) {
	return r.exists(ctx, "check role exists", bson.M{"role": role})
}

func (r *mongoRepository) exists(
	ctx context.Context,
	op string,
	filter bson.M,
) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

func (r *mongoRepository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	filter := bson.M{}
	if params.Search != "" {
		pattern := bson.Regex{Pattern: regexp.QuoteMeta(params.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"email": pattern},
			bson.M{"name": pattern},
		}
	}
	if params.Role != "" {
		filter["role"] = params.Role
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(params.Offset())).
		SetLimit(int64(params.PageSize))

	users, err := r.findMany(ctx, "list users", filter, opts)
	if err != nil {
		return nil, 0, err
	}

	return users, int(total), nil
}

func (r *mongoRepository) ListRecipients(
	ctx context.Context,
	prefKey string,
	limit int,
) ([]User, error) {
	if !prefKeyPattern.MatchString(prefKey) {
		return nil, fmt.Errorf(
			"list notification recipients: bad key %q: %w",
			prefKey,
			core.ErrInvalidInput,
		)
	}

	filter := bson.M{
		"push_token":                       bson.M{"$nin": bson.A{nil, ""}},
		"notification_preferences.enabled": true,
		"notification_preferences.categories." + prefKey: true,
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	return r.findMany(ctx, "list notification recipients", filter, opts)
}

func (r *mongoRepository) findMany(
	ctx context.Context,
	op string,
	filter bson.M,
	opts *options.FindOptionsBuilder,
) ([]User, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	valid := users[:0]
	for _, u := range users {
		if err := u.Validate(); err != nil {
			slog.Warn("skipping invalid user document", "op", op, "error", err)
			continue
		}
		valid = append(valid, u)
	}

	return valid, nil
}
