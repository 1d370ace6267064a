package database

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// InsertResult is the JSON shape returned by create endpoints.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult is the JSON shape returned by update endpoints.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResult is the JSON shape returned by delete endpoints.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// FromInsertOne converts a driver result, rendering ObjectIDs as hex.
func FromInsertOne(r *mongo.InsertOneResult) InsertResult {
	out := InsertResult{Acknowledged: true}
	switch id := r.InsertedID.(type) {
	case primitive.ObjectID:
		out.InsertedID = id.Hex()
	case string:
		out.InsertedID = id
	}
	return out
}

func FromUpdate(r *mongo.UpdateResult) UpdateResult {
	return UpdateResult{Acknowledged: true, MatchedCount: r.MatchedCount, ModifiedCount: r.ModifiedCount}
}

func FromDelete(r *mongo.DeleteResult) DeleteResult {
	return DeleteResult{Acknowledged: true, DeletedCount: r.DeletedCount}
}

// ParseID turns a hex string into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(id)
}
