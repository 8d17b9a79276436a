package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// AdminRole is the only elevated role the storefront knows.
const AdminRole = "admin"

// User is the identity record, keyed by email. Profile fields sent at login
// are merged into it by the upsert; Role is empty for regular users and
// "admin" after promotion.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email string             `bson:"email" json:"email"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Role  string             `bson:"role,omitempty" json:"role,omitempty"`
}

// IsAdmin reports whether this record carries the admin role.
func (u User) IsAdmin() bool { return u.Role == AdminRole }

// UpsertResult mirrors the document store's update acknowledgement, which
// the login endpoint relays to the client alongside the fresh token.
type UpsertResult struct {
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedID    interface{} `json:"upsertedId,omitempty"`
}
