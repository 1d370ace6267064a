package payment

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

func (r *MongoRepository) Insert(ctx context.Context, p Payment) (database.InsertResult, error) {
	p.ID = primitive.NilObjectID
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return database.InsertResult{}, fmt.Errorf("insert payment: %w", err)
	}
	return database.FromInsertOne(res), nil
}

func summaryPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$payerId"},
			{Key: "payerName", Value: bson.D{{Key: "$last", Value: "$payerName"}}},
			{Key: "totalAmount", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
			{Key: "paymentCount", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "lastPaymentDate", Value: bson.D{{Key: "$max", Value: "$date"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

func (r *MongoRepository) Summary(ctx context.Context) ([]PayerSummary, error) {
	cur, err := r.coll.Aggregate(ctx, summaryPipeline())
	if err != nil {
		return nil, fmt.Errorf("aggregate payments: %w", err)
	}
	out := make([]PayerSummary, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode payment summary: %w", err)
	}
	return out, nil
}
