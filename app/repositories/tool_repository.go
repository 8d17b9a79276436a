package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/camtools/app/models"
)

// ToolRepository handles the tools collection.
type ToolRepository struct {
	col *mongo.Collection
}

func NewToolRepository(col *mongo.Collection) *ToolRepository {
	return &ToolRepository{col: col}
}

// All returns the entire catalog, unfiltered and unpaginated.
func (r *ToolRepository) All(ctx context.Context) ([]models.Tool, error) {
	cur, err := r.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("tools: find: %w", err)
	}
	defer cur.Close(ctx)

	tools := []models.Tool{}
	if err := cur.All(ctx, &tools); err != nil {
		return nil, fmt.Errorf("tools: decode: %w", err)
	}
	return tools, nil
}

// FindByID returns one tool or ErrNotFound.
func (r *ToolRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Tool, error) {
	var tool models.Tool
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&tool)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Tool{}, ErrNotFound
	}
	if err != nil {
		return models.Tool{}, fmt.Errorf("tools: find %s: %w", id.Hex(), err)
	}
	return tool, nil
}

// Create inserts a new tool and returns its generated id.
func (r *ToolRepository) Create(ctx context.Context, tool models.Tool) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, tool)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("tools: insert: %w", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// Delete removes a tool. Deleting an absent id is not an error; the
// returned count is 0.
func (r *ToolRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("tools: delete %s: %w", id.Hex(), err)
	}
	return res.DeletedCount, nil
}

// DecrementStock atomically subtracts quantity from the tool's stock,
// but only when enough stock remains: a single conditional FindOneAndUpdate
// with quantity >= n in the filter, so two concurrent orders can never
// oversell. Returns ErrNotFound when the tool does not exist and
// ErrInsufficientStock when it exists but stock is too low.
func (r *ToolRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	filter := bson.M{"_id": id, "quantity": bson.M{"$gte": quantity}}
	update := bson.M{"$inc": bson.M{"quantity": -quantity}}

	err := r.col.FindOneAndUpdate(ctx, filter, update).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Disambiguate: absent tool vs present-but-understocked.
		if _, lookupErr := r.FindByID(ctx, id); lookupErr != nil {
			return lookupErr
		}
		return ErrInsufficientStock
	}
	if err != nil {
		return fmt.Errorf("tools: decrement %s: %w", id.Hex(), err)
	}
	return nil
}

// IncrementStock adds quantity back, the compensation for a failed order
// insert after a successful decrement.
func (r *ToolRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"quantity": quantity}},
	)
	if err != nil {
		return fmt.Errorf("tools: increment %s: %w", id.Hex(), err)
	}
	return nil
}

// SetImage stores the public URL of an uploaded product image.
func (r *ToolRepository) SetImage(ctx context.Context, id primitive.ObjectID, url string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"img": url}},
	)
	if err != nil {
		return fmt.Errorf("tools: set image %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
