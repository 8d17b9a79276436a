package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/camtools/app/models"
)

// UserRepository handles the users collection, keyed by email.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(col *mongo.Collection) *UserRepository {
	return &UserRepository{col: col}
}

// Upsert merges fields into the user record for email, inserting when
// absent. The email key always wins over whatever the payload carries.
func (r *UserRepository) Upsert(ctx context.Context, email string, fields map[string]interface{}) (models.UpsertResult, error) {
	doc := bson.M{}
	for k, v := range fields {
		doc[k] = v
	}
	doc["email"] = email

	res, err := r.col.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return models.UpsertResult{}, fmt.Errorf("users: upsert %s: %w", email, err)
	}

	return models.UpsertResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

// FindByEmail returns one user or ErrNotFound.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("users: find %s: %w", email, err)
	}
	return user, nil
}

// All returns every user record, unpaginated.
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	cur, err := r.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("users: find: %w", err)
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("users: decode: %w", err)
	}
	return users, nil
}

// PromoteToAdmin sets role="admin" unconditionally; promoting an admin
// again is a no-op. Returns ErrNotFound when the target does not exist.
func (r *UserRepository) PromoteToAdmin(ctx context.Context, email string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": models.AdminRole}},
	)
	if err != nil {
		return fmt.Errorf("users: promote %s: %w", email, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IsAdmin reports whether email owns the admin role. An absent user is
// simply not an admin, never an error.
func (r *UserRepository) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := r.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}
