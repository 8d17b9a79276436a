package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/camtools/app/models"
)

// ReviewRepository handles the append-only reviews collection.
type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(col *mongo.Collection) *ReviewRepository {
	return &ReviewRepository{col: col}
}

// All returns every review, unfiltered.
func (r *ReviewRepository) All(ctx context.Context) ([]models.Review, error) {
	cur, err := r.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("reviews: find: %w", err)
	}
	defer cur.Close(ctx)

	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("reviews: decode: %w", err)
	}
	return reviews, nil
}

// Insert stores a new review and returns its generated id.
func (r *ReviewRepository) Insert(ctx context.Context, review models.Review) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, review)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("reviews: insert: %w", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}
