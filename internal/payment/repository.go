package payment

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wichananm65/nursery-shop-backend/internal/database"
)

// Repository defines persistence operations for payments. There is no update
// or delete; records are append only.
type Repository interface {
	Insert(ctx context.Context, p Payment) (database.InsertResult, error)
	// Summary groups every record by payerId.
	Summary(ctx context.Context) ([]PayerSummary, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Payment
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Insert(_ context.Context, p Payment) (database.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = primitive.NewObjectID()
	r.storage = append(r.storage, p)
	return database.InsertResult{Acknowledged: true, InsertedID: p.ID.Hex()}, nil
}

func (r *InMemoryRepository) Summary(_ context.Context) ([]PayerSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byPayer := map[string]*PayerSummary{}
	for _, p := range r.storage {
		s, ok := byPayer[p.PayerID]
		if !ok {
			s = &PayerSummary{Payer: p.PayerID}
			byPayer[p.PayerID] = s
		}
		s.TotalAmount += p.Amount
		s.PaymentCount++
		if p.PayerName != "" {
			s.PayerName = p.PayerName
		}
		if p.Date.After(s.LastPaymentDate) {
			s.LastPaymentDate = p.Date
		}
	}

	out := make([]PayerSummary, 0, len(byPayer))
	for _, s := range byPayer {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Payer < out[j].Payer })
	return out, nil
}
