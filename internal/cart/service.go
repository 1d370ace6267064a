package cart

import (
	"context"
	"errors"

	"github.com/wichananm65/nursery-shop-backend/internal/product"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid productId")
)

// ProductFinder resolves catalog products by their hex id.
type ProductFinder interface {
	GetByID(ctx context.Context, id string) (product.Product, error)
}

// Service orchestrates cart operations.
type Service struct {
	repo     Repository
	products ProductFinder
}

func NewService(repo Repository, products ProductFinder) *Service {
	return &Service{repo: repo, products: products}
}

// Add changes the quantity of productID by qty. Positive changes need the
// product to exist; decrements are always allowed so stale lines can be
// removed. qty == 0 just returns the cart.
func (s *Service) Add(ctx context.Context, sessionID, productID string, qty int64) ([]Item, error) {
	if productID == "" {
		return nil, ErrInvalidProduct
	}
	if qty == 0 {
		return s.repo.Get(ctx, sessionID)
	}
	if qty > 0 {
		if _, err := s.products.GetByID(ctx, productID); err != nil {
			switch {
			case errors.Is(err, product.ErrNotFound):
				return nil, ErrProductNotFound
			case errors.Is(err, product.ErrInvalidID):
				return nil, ErrInvalidProduct
			}
			return nil, err
		}
	}
	return s.repo.Add(ctx, sessionID, productID, qty)
}

func (s *Service) Get(ctx context.Context, sessionID string) ([]Item, error) {
	return s.repo.Get(ctx, sessionID)
}

// Clear empties the session cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.repo.Clear(ctx, sessionID)
}
