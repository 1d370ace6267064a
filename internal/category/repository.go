package category

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wichananm65/nursery-shop-backend/internal/database"
)

var (
	ErrNotFound       = errors.New("category not found")
	ErrInvalidID      = errors.New("invalid category id")
	ErrEmptyUpdate    = errors.New("update has no fields")
	ErrInvalidPayload = errors.New("invalid category payload")
)

// Repository provides access to categories.
type Repository interface {
	// List returns every category with its current product count.
	List(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, c Category) (database.InsertResult, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (database.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (database.DeleteResult, error)
	// Exists reports whether a category with this exact name is stored.
	Exists(ctx context.Context, name string) (bool, error)
	Reset(ctx context.Context, categories []Category) error
}

// ProductCounter counts products whose category equals name.
type ProductCounter interface {
	CountByCategory(ctx context.Context, name string) (int64, error)
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	storage  []Category
	products ProductCounter
}

// NewInMemoryRepository keeps categories in memory and asks products for
// counts on every List. products may be nil, in which case every count is 0.
func NewInMemoryRepository(products ProductCounter, seed []Category) *InMemoryRepository {
	r := &InMemoryRepository{products: products}
	for _, c := range seed {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		c.TotalProducts = 0
		r.storage = append(r.storage, c)
	}
	return r
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Category, error) {
	r.mu.RLock()
	out := make([]Category, len(r.storage))
	copy(out, r.storage)
	r.mu.RUnlock()

	for i := range out {
		if r.products == nil {
			continue
		}
		n, err := r.products.CountByCategory(ctx, out[i].Name)
		if err != nil {
			return nil, err
		}
		out[i].TotalProducts = n
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (r *InMemoryRepository) Create(_ context.Context, c Category) (database.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = primitive.NewObjectID()
	c.TotalProducts = 0
	r.storage = append(r.storage, c)
	return database.InsertResult{Acknowledged: true, InsertedID: c.ID.Hex()}, nil
}

func (r *InMemoryRepository) Update(_ context.Context, id primitive.ObjectID, fields map[string]any) (database.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID != id {
			continue
		}
		merged := r.storage[i].Fields()
		for k, v := range fields {
			merged[k] = v
		}
		nc, err := FromFields(merged)
		if err != nil {
			return database.UpdateResult{}, err
		}
		nc.ID = id
		r.storage[i] = nc
		return database.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return database.UpdateResult{Acknowledged: true}, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id primitive.ObjectID) (database.DeleteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return database.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return database.DeleteResult{Acknowledged: true}, nil
}

func (r *InMemoryRepository) Exists(_ context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.storage {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRepository) Reset(_ context.Context, categories []Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = make([]Category, 0, len(categories))
	for _, c := range categories {
		c.ID = primitive.NewObjectID()
		c.TotalProducts = 0
		r.storage = append(r.storage, c)
	}
	return nil
}
