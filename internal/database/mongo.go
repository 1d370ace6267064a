// Package database bootstraps the MongoDB connection and exposes the
// storefront collections.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	ProductsCollection   = "products"
	CategoriesCollection = "categories"
	PaymentsCollection   = "payments"
)

// ErrUnavailable marks data calls made while no store client exists.
var ErrUnavailable = errors.New("document store unavailable")

// Store wraps a single client shared by every request.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect creates the client. The driver connects lazily, so an unreachable
// server shows up as a ping error here and as per-operation errors later.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

// NewStore wraps an existing database handle (used by tests).
func NewStore(db *mongo.Database) *Store {
	return &Store{client: db.Client(), db: db}
}

func (s *Store) Products() *mongo.Collection   { return s.db.Collection(ProductsCollection) }
func (s *Store) Categories() *mongo.Collection { return s.db.Collection(CategoriesCollection) }
func (s *Store) Payments() *mongo.Collection   { return s.db.Collection(PaymentsCollection) }

// Ping reports whether the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Disconnect closes the pool; only called on shutdown.
func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Down takes the place of a Store whose client could not be created. Ping
// always reports Err.
type Down struct {
	Err error
}

func (d Down) Ping(context.Context) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, d.Err)
}
