package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/camtools/app/models"
)

// PaymentRepository handles the append-only payments collection.
type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(col *mongo.Collection) *PaymentRepository {
	return &PaymentRepository{col: col}
}

// Insert records one payment receipt and returns its generated id.
func (r *PaymentRepository) Insert(ctx context.Context, receipt models.PaymentReceipt) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, receipt)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("payments: insert: %w", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}
