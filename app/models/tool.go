package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Tool is a catalog product: a piece of camera equipment with a price and
// available stock. Quantity is only ever mutated by the order workflow's
// conditional decrement, never set directly by an API write.
type Tool struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Image       string             `bson:"img,omitempty" json:"img,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	MinOrder    int                `bson:"minOrderQuantity,omitempty" json:"minOrderQuantity,omitempty"`
}

// ToolInput is the admin create-tool request body.
type ToolInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description string  `json:"description" validate:"nullable,max=2000"`
	Image       string  `json:"img" validate:"nullable,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	MinOrder    int     `json:"minOrderQuantity" validate:"nullable,gte=1"`
}
