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

// ProfileRepository handles the profiles collection, keyed by email.
type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(col *mongo.Collection) *ProfileRepository {
	return &ProfileRepository{col: col}
}

// FindByEmail returns the profile document for email or ErrNotFound.
func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (models.Profile, error) {
	var profile models.Profile
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profiles: find %s: %w", email, err)
	}
	return profile, nil
}

// Upsert applies a $set of the submitted fields keyed by email: submitted
// fields overwrite, absent fields are preserved. The upsert filter
// guarantees a single document per email.
func (r *ProfileRepository) Upsert(ctx context.Context, profile models.Profile) error {
	email := profile.Email()
	if email == "" {
		return fmt.Errorf("profiles: upsert: missing email")
	}

	_, err := r.col.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": profile},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("profiles: upsert %s: %w", email, err)
	}
	return nil
}
