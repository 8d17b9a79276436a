// Package database owns the MongoDB client for the storefront.
//
// Connect is called once at startup; the process must not serve traffic
// without a live document store, so the caller treats a Connect error as
// fatal. Collection handles are cheap and concurrency-safe, handlers get
// them through the repositories rather than package globals.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/camtools/config"
)

// Collection names inside the camera_tools database.
const (
	ToolsCollection    = "tools"
	UsersCollection    = "users"
	OrdersCollection   = "orders"
	ReviewsCollection  = "reviews"
	ProfilesCollection = "profiles"
	PaymentsCollection = "payments"
)

// Mongo bundles the client and the storefront database.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client, verifies the connection with a ping, and returns
// the handle. Returns an error instead of calling log.Fatal so the caller
// can shut down gracefully.
func Connect(ctx context.Context) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return &Mongo{
		client: client,
		db:     client.Database(config.MongoDatabase()),
	}, nil
}

// Collection returns a handle to the named collection.
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// Database exposes the underlying database handle.
func (m *Mongo) Database() *mongo.Database {
	return m.db
}

// Close disconnects the client. Safe to defer from main.
func (m *Mongo) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("database: disconnect: %w", err)
	}
	return nil
}
