package category

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wichananm65/nursery-shop-backend/internal/database"
)

// DownRepository fails every call; see product.DownRepository.
type DownRepository struct {
	err error
}

func NewDownRepository(cause error) *DownRepository {
	return &DownRepository{err: fmt.Errorf("%w: %v", database.ErrUnavailable, cause)}
}

func (r *DownRepository) List(context.Context) ([]Category, error) { return nil, r.err }

func (r *DownRepository) Create(context.Context, Category) (database.InsertResult, error) {
	return database.InsertResult{}, r.err
}

func (r *DownRepository) Update(context.Context, primitive.ObjectID, map[string]any) (database.UpdateResult, error) {
	return database.UpdateResult{}, r.err
}

func (r *DownRepository) Delete(context.Context, primitive.ObjectID) (database.DeleteResult, error) {
	return database.DeleteResult{}, r.err
}

func (r *DownRepository) Exists(context.Context, string) (bool, error) { return false, r.err }

func (r *DownRepository) Reset(context.Context, []Category) error { return r.err }
