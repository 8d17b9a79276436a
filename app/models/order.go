package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is a purchase request linking a buyer, a tool, and a quantity.
// The shipped and paid flags are independent booleans, the workflow does
// not enforce an ordering between them.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email         string             `bson:"email" json:"email"`
	ToolID        primitive.ObjectID `bson:"toolId" json:"toolId"`
	ToolName      string             `bson:"toolName,omitempty" json:"toolName,omitempty"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	Price         float64            `bson:"price" json:"price"`
	Shipped       bool               `bson:"shipped" json:"shipped"`
	Paid          bool               `bson:"paid" json:"paid"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// OrderInput is the buyer's create-order request body.
type OrderInput struct {
	Email    string `json:"email" validate:"required,email"`
	ToolID   string `json:"toolId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

// PaymentInput is the body of the payment-confirmation PATCH. The whole
// payload is recorded as the receipt; only TransactionID is interpreted.
type PaymentInput struct {
	TransactionID string `json:"transactionId" validate:"required"`
}
