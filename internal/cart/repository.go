package cart

import (
	"context"
	"sort"
	"sync"
)

// Item is one product line of a session cart.
type Item struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// Repository stores a productID -> quantity map per session.
// Lines whose quantity drops to zero or below are removed.
type Repository interface {
	Add(ctx context.Context, sessionID, productID string, delta int64) ([]Item, error)
	Get(ctx context.Context, sessionID string) ([]Item, error)
	Clear(ctx context.Context, sessionID string) error
}

// InMemoryRepository is used for tests and when no redis is configured.
// Entries never expire.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[string]map[string]int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: map[string]map[string]int64{}}
}

func (r *InMemoryRepository) Add(_ context.Context, sessionID, productID string, delta int64) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[sessionID]
	if !ok {
		c = map[string]int64{}
		r.carts[sessionID] = c
	}
	c[productID] += delta
	if c[productID] <= 0 {
		delete(c, productID)
	}
	return toItems(c), nil
}

func (r *InMemoryRepository) Get(_ context.Context, sessionID string) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return toItems(r.carts[sessionID]), nil
}

func (r *InMemoryRepository) Clear(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
	return nil
}

func toItems(m map[string]int64) []Item {
	out := make([]Item, 0, len(m))
	for pid, q := range m {
		out = append(out, Item{ProductID: pid, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
