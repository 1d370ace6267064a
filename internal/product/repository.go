package product

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wichananm65/nursery-shop-backend/internal/database"
	"github.com/wichananm65/nursery-shop-backend/internal/query"
)

var (
	ErrNotFound        = errors.New("product not found")
	ErrInvalidID       = errors.New("invalid product id")
	ErrEmptyUpdate     = errors.New("update has no fields")
	ErrUnknownCategory = errors.New("unknown category")
)

type Repository interface {
	// List returns one page of matching products plus the full match count.
	List(ctx context.Context, q query.Params) ([]Product, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (Product, error)
	Create(ctx context.Context, p Product) (database.InsertResult, error)
	// Update merges fields into the stored document.
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (database.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (database.DeleteResult, error)
	// ClearCart resets addedToCart on every product.
	ClearCart(ctx context.Context) (int64, error)
	// Reset replaces all products with the provided list (used for dev / seeding)
	Reset(ctx context.Context, products []Product) error
}

// InMemoryRepository is a simple in-memory implementation useful for tests and
// running without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Product, 0, len(seed))}
	for _, p := range seed {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		r.storage = append(r.storage, p)
	}
	return r
}

func (r *InMemoryRepository) List(_ context.Context, q query.Params) ([]Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]Product, 0, len(r.storage))
	for _, p := range r.storage {
		if matches(p, q) {
			matched = append(matched, p)
		}
	}

	dir := q.Direction()
	sort.SliceStable(matched, func(i, j int) bool {
		c := compareValues(matched[i].Fields()[q.SortBy], matched[j].Fields()[q.SortBy])
		if c == 0 {
			c = strings.Compare(matched[i].ID.Hex(), matched[j].ID.Hex())
		}
		return c*dir < 0
	})

	total := int64(len(matched))
	start := q.Skip()
	if start >= total {
		return []Product{}, total, nil
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	out := make([]Product, end-start)
	copy(out, matched[start:end])
	return out, total, nil
}

func matches(p Product, q query.Params) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(q.Search)) {
		return false
	}
	if q.AddedToCart != nil && p.AddedToCart != *q.AddedToCart {
		return false
	}
	return true
}

// compareValues orders missing values first, then numbers, then strings.
func compareValues(a, b any) int {
	rank := func(v any) int {
		switch v.(type) {
		case nil:
			return 0
		case float64, float32, int, int32, int64:
			return 1
		case string:
			return 2
		case bool:
			return 3
		}
		return 4
	}
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 1:
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 2:
		return strings.Compare(a.(string), b.(string))
	case 3:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		}
		return 1
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func (r *InMemoryRepository) GetByID(_ context.Context, id primitive.ObjectID) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Create(_ context.Context, p Product) (database.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = primitive.NewObjectID()
	r.storage = append(r.storage, p)
	return database.InsertResult{Acknowledged: true, InsertedID: p.ID.Hex()}, nil
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
		np := FromFields(merged)
		np.ID = id
		r.storage[i] = np
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

func (r *InMemoryRepository) ClearCart(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.storage {
		p := &r.storage[i]
		_, odd := p.Extra["addedToCart"]
		if p.AddedToCart || odd {
			n++
		}
		// copies handed out earlier share these maps
		p.Extra = maps.Clone(p.Extra)
		p.present = maps.Clone(p.present)
		delete(p.Extra, "addedToCart")
		p.setKnown("addedToCart", false)
	}
	return n, nil
}

// Reset replaces the whole in-memory storage with the provided products.
func (r *InMemoryRepository) Reset(_ context.Context, products []Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = make([]Product, 0, len(products))
	for _, p := range products {
		p.ID = primitive.NewObjectID()
		r.storage = append(r.storage, p)
	}
	return nil
}

// CountByCategory counts products whose category equals name exactly.
func (r *InMemoryRepository) CountByCategory(_ context.Context, name string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, p := range r.storage {
		if p.Category == name {
			n++
		}
	}
	return n, nil
}
