package product

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wichananm65/nursery-shop-backend/internal/database"
	"github.com/wichananm65/nursery-shop-backend/internal/query"
)

// DownRepository fails every call. It is wired when the store client could
// not be created, so requests get a 500 instead of an empty catalog.
type DownRepository struct {
	err error
}

func NewDownRepository(cause error) *DownRepository {
	return &DownRepository{err: fmt.Errorf("%w: %v", database.ErrUnavailable, cause)}
}

func (r *DownRepository) List(context.Context, query.Params) ([]Product, int64, error) {
	return nil, 0, r.err
}

func (r *DownRepository) GetByID(context.Context, primitive.ObjectID) (Product, error) {
	return Product{}, r.err
}

func (r *DownRepository) Create(context.Context, Product) (database.InsertResult, error) {
	return database.InsertResult{}, r.err
}

func (r *DownRepository) Update(context.Context, primitive.ObjectID, map[string]any) (database.UpdateResult, error) {
	return database.UpdateResult{}, r.err
}

func (r *DownRepository) Delete(context.Context, primitive.ObjectID) (database.DeleteResult, error) {
	return database.DeleteResult{}, r.err
}

func (r *DownRepository) ClearCart(context.Context) (int64, error) { return 0, r.err }

func (r *DownRepository) Reset(context.Context, []Product) error { return r.err }
