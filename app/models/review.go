package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Review is an append-only customer review. There is no update or delete
// path, and no auth gate on creation.
type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Image       string             `bson:"img,omitempty" json:"img,omitempty"`
	Rating      int                `bson:"rating" json:"rating"`
	Description string             `bson:"description" json:"description"`
}

// ReviewInput is the create-review request body.
type ReviewInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Image       string `json:"img" validate:"nullable,max=500"`
	Rating      int    `json:"rating" validate:"required,between=1,5"`
	Description string `json:"description" validate:"required,max=2000"`
}
