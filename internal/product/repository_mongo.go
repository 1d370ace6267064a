package product

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wichananm65/nursery-shop-backend/internal/database"
	"github.com/wichananm65/nursery-shop-backend/internal/query"
)

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

// List counts the whole filtered set first, then fetches the requested page.
func (r *MongoRepository) List(ctx context.Context, q query.Params) ([]Product, int64, error) {
	filter := q.Filter()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	cur, err := r.coll.Find(ctx, filter, q.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}
	out := make([]Product, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}
	return out, total, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (Product, error) {
	var p Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("find product %s: %w", id.Hex(), err)
	}
	return p, nil
}

func (r *MongoRepository) Create(ctx context.Context, p Product) (database.InsertResult, error) {
	p.ID = primitive.NilObjectID
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return database.InsertResult{}, fmt.Errorf("insert product: %w", err)
	}
	return database.FromInsertOne(res), nil
}

func (r *MongoRepository) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (database.UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return database.UpdateResult{}, fmt.Errorf("update product %s: %w", id.Hex(), err)
	}
	return database.FromUpdate(res), nil
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) (database.DeleteResult, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return database.DeleteResult{}, fmt.Errorf("delete product %s: %w", id.Hex(), err)
	}
	return database.FromDelete(res), nil
}

// ClearCart is a single UpdateMany; concurrent product updates may land
// before or after it.
func (r *MongoRepository) ClearCart(ctx context.Context) (int64, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"addedToCart": false}})
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return res.ModifiedCount, nil
}

// Reset is two separate writes, not a transaction.
func (r *MongoRepository) Reset(ctx context.Context, products []Product) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("reset products: %w", err)
	}
	if len(products) == 0 {
		return nil
	}
	docs := make([]any, 0, len(products))
	for _, p := range products {
		p.ID = primitive.NilObjectID
		docs = append(docs, p)
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("reseed products: %w", err)
	}
	return nil
}
