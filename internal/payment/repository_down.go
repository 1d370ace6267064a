package payment

import (
	"context"
	"fmt"

	"github.com/wichananm65/nursery-shop-backend/internal/database"
)

// DownRepository refuses to record payments when there is no store client,
// rather than holding them in memory.
type DownRepository struct {
	err error
}

func NewDownRepository(cause error) *DownRepository {
	return &DownRepository{err: fmt.Errorf("%w: %v", database.ErrUnavailable, cause)}
}

func (r *DownRepository) Insert(context.Context, Payment) (database.InsertResult, error) {
	return database.InsertResult{}, r.err
}

func (r *DownRepository) Summary(context.Context) ([]PayerSummary, error) { return nil, r.err }
