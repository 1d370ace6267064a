package category

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wichananm65/nursery-shop-backend/internal/database"
)

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

// countPipeline joins every category to the products naming it and replaces
// the joined array with its length.
func countPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: database.ProductsCollection},
			{Key: "localField", Value: "name"},
			{Key: "foreignField", Value: "category"},
			{Key: "as", Value: "products"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "totalProducts", Value: bson.D{{Key: "$size", Value: "$products"}}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "products", Value: 0}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

func (r *MongoRepository) List(ctx context.Context) ([]Category, error) {
	cur, err := r.coll.Aggregate(ctx, countPipeline())
	if err != nil {
		return nil, fmt.Errorf("aggregate categories: %w", err)
	}
	out := make([]Category, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) Create(ctx context.Context, c Category) (database.InsertResult, error) {
	c.ID = primitive.NilObjectID
	c.TotalProducts = 0
	res, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		return database.InsertResult{}, fmt.Errorf("insert category: %w", err)
	}
	return database.FromInsertOne(res), nil
}

func (r *MongoRepository) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (database.UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return database.UpdateResult{}, fmt.Errorf("update category %s: %w", id.Hex(), err)
	}
	return database.FromUpdate(res), nil
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) (database.DeleteResult, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return database.DeleteResult{}, fmt.Errorf("delete category %s: %w", id.Hex(), err)
	}
	return database.FromDelete(res), nil
}

func (r *MongoRepository) Exists(ctx context.Context, name string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		return false, fmt.Errorf("lookup category %q: %w", name, err)
	}
	return n > 0, nil
}

func (r *MongoRepository) Reset(ctx context.Context, categories []Category) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("reset categories: %w", err)
	}
	if len(categories) == 0 {
		return nil
	}
	docs := make([]any, 0, len(categories))
	for _, c := range categories {
		c.ID = primitive.NilObjectID
		c.TotalProducts = 0
		docs = append(docs, c)
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("reseed categories: %w", err)
	}
	return nil
}
