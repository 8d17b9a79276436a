package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentReceipt is the append-only record of one payment confirmation.
// Payload carries whatever the client submitted (including transactionId);
// OrderID links the receipt back to the order it settled.
type PaymentReceipt struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"_id,omitempty"`
	OrderID   primitive.ObjectID     `bson:"orderId" json:"orderId"`
	Payload   map[string]interface{} `bson:"payload" json:"payload"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
}
